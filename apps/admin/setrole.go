package main

import (
	"context"
	"fmt"

	"github.com/osisproject0-hub/smaktal/core"
)

// setRole bootstraps roles, typically the first admin, before anyone can use the admin pages.
func (cli *commandLine) setRole(uid, role string) error {
	role = core.CleanString(role, true /* lower */)
	if err := cli.usrSvc.SetRole(context.Background(), core.CleanString(uid), role); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s is now %s\n", uid, role)
	return nil
}
