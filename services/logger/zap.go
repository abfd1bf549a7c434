package logsvc

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NewZapLogger builds the local sink: JSON in production, console otherwise.
func NewZapLogger(env string, debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToUpper(env) {
	case "PROD", "QA":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// keysAndValues turns logger args into zap's loosely typed pairs.
func keysAndValues(args []interface{}) []interface{} {
	kv := make([]interface{}, 0, len(args)*2)
	for i, arg := range args {
		switch v := arg.(type) {
		case error:
			kv = append(kv, "error", fmt.Sprintf("%+v", v))
		case map[string]interface{}:
			for k, val := range v {
				kv = append(kv, k, val)
			}
		case nil:
		default:
			kv = append(kv, fmt.Sprintf("arg%d", i), v)
		}
	}
	return kv
}
