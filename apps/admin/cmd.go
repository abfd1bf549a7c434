package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/osisproject0-hub/smaktal/core/user"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp    = errors.New("help provided")
	errAborted = errors.New("aborted")
)

type commandLine struct {
	db     *sqlx.DB
	usrSvc *user.Service
	seeder *seeder
	in     io.Reader
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  seed - store the default houses, resources, learning topics and skill tree")
	fmt.Fprintln(cli.out, "  setrole -uid UID -role student|teacher|admin - change a user's role")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setRoleCmd := flag.NewFlagSet("setrole", flag.ContinueOnError)
	setRoleCmd.SetOutput(cli.out)
	setRoleUID := setRoleCmd.String("uid", "", "The user's ID (the Google account subject).")
	setRoleRole := setRoleCmd.String("role", "", "The new role: "+strings.Join(user.AllRoles, ", ")+".")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "setrole":
		if err := setRoleCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *setRoleUID == "" || *setRoleRole == "" {
			setRoleCmd.Usage()
			return errHelp
		}
		if *setRoleRole == user.RoleAdmin && !cli.confirm(fmt.Sprintf("Grant the admin role to %s?", *setRoleUID)) {
			return errAborted
		}
		return cli.setRole(*setRoleUID, *setRoleRole)
	default:
		cli.printUsage()
		return errHelp
	}
}

// confirm asks a yes/no question when stdin is a terminal. Non-interactive runs are confirmed.
func (cli *commandLine) confirm(question string) bool {
	if f, ok := cli.in.(*os.File); !ok || !isTerminalFunc(int(f.Fd())) {
		return true
	}
	fmt.Fprintf(cli.out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
