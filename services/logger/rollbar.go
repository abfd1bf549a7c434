package logsvc

import (
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
)

// RollbarLogger reports to Rollbar and mirrors every entry to a local zap logger.
type RollbarLogger struct {
	local *zap.SugaredLogger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(local *zap.SugaredLogger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)
	return &RollbarLogger{local: local}
}

func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// prepare returns the rollbar args and the local ones.
// expected fmt: msg | error, map[string]interface{}, user.User, *core.Principal
func (l *RollbarLogger) prepare(msg string, args []interface{}) (remote []interface{}, local []interface{}) {
	var personSet bool
	setPerson := func(id, name, email string) {
		if !personSet { // only set one person
			rollbar.SetPerson(id, name, email)
			personSet = true
		}
	}

	remote = make([]interface{}, 0, len(args)+1)
	remote = append(remote, msg)
	local = make([]interface{}, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case user.User:
			setPerson(v.ID, v.DisplayName, v.Email)
			local = append(local, map[string]interface{}{"uid": v.ID})
		case *core.Principal:
			if !v.IsZero() {
				setPerson(v.UID, v.DisplayName, v.Email)
				local = append(local, map[string]interface{}{"uid": v.UID})
			}
		default:
			remote = append(remote, arg)
			local = append(local, arg)
		}
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	return remote, keysAndValues(local)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	remote, local := l.prepare(msg, args)
	rollbar.Debug(remote...)
	l.local.Debugw(msg, local...)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	remote, local := l.prepare(msg, args)
	rollbar.Info(remote...)
	l.local.Infow(msg, local...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	remote, local := l.prepare(msg, args)
	rollbar.Warning(remote...)
	l.local.Warnw(msg, local...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	remote, local := l.prepare(msg, args)
	rollbar.Error(remote...)
	l.local.Errorw(msg, local...)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	remote, local := l.prepare(msg, args)
	rollbar.Critical(remote...)
	rollbar.Close()
	l.local.Fatalw(msg, local...)
}

// Close flushes pending reports and the local sink.
func (l *RollbarLogger) Close() {
	rollbar.Close()
	_ = l.local.Sync()
}
