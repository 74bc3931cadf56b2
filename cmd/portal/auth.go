package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
)

const passwordEnv = "PORTAL_PASSWORD"

func runLogin(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "login")
	username := fs.String("username", "", "account name")
	password := fs.String("password", "", "password (defaults to $"+passwordEnv+" or a line on stdin)")
	remember := fs.Bool("remember", false, "keep the session after this shell exits")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pw, err := resolvePassword(cmdCtx, *password)
	if err != nil {
		return err
	}
	profile, err := cmdCtx.Portal.Sessions.Login(cmdCtx.Ctx, domainauth.LoginInput{
		Username:   strings.TrimSpace(*username),
		Password:   pw,
		RememberMe: *remember,
	})
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("signed in", "username", profile.Username, "scope", cmdCtx.Portal.Sessions.Scope())
	return printResult(cmdCtx, out, profile)
}

// resolvePassword prefers the flag, then the environment, then one line of input.
func resolvePassword(cmdCtx *commandContext, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(passwordEnv); v != "" {
		return v, nil
	}
	if cmdCtx.In == nil {
		return "", nil
	}
	if err := writef(cmdCtx.Err, "password: "); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(cmdCtx.In).ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	if err := cmdCtx.Portal.Sessions.Logout(cmdCtx.Ctx); err != nil {
		return err
	}
	return writeln(cmdCtx.Out, "signed out")
}

func runWhoami(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "whoami")
	remote := fs.Bool("remote", false, "fetch the profile from the backend")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireLogin(cmdCtx); err != nil {
		return err
	}
	if *remote {
		profile, err := cmdCtx.Portal.Auth.GetUserInfo(cmdCtx.Ctx, "")
		if err != nil {
			return err
		}
		return printResult(cmdCtx, out, profile)
	}
	profile, _ := cmdCtx.Portal.Sessions.Profile()
	return printResult(cmdCtx, out, struct {
		domainauth.UserProfile
		Scope domainauth.Scope `json:"scope"`
	}{profile, cmdCtx.Portal.Sessions.Scope()})
}

func runRegister(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "register")
	username := fs.String("username", "", "account name")
	password := fs.String("password", "", "password (defaults to $"+passwordEnv+" or a line on stdin)")
	email := fs.String("email", "", "contact address")
	role := fs.String("role", string(domainauth.RoleStudent), "student or teacher")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pw, err := resolvePassword(cmdCtx, *password)
	if err != nil {
		return err
	}
	in := domainauth.RegisterInput{
		Username: strings.TrimSpace(*username),
		Password: pw,
		Email:    strings.TrimSpace(*email),
		Role:     domainauth.Role(strings.ToLower(strings.TrimSpace(*role))),
	}
	if err := cmdCtx.Portal.Sessions.Register(cmdCtx.Ctx, in); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "registered %s; run `portal login -username %s` next\n", in.Username, in.Username)
}

func runProfile(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "profile")
	studentID := fs.String("student-id", "", "new student id")
	faculty := fs.String("faculty", "", "new faculty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireLogin(cmdCtx); err != nil {
		return err
	}

	var upd domainauth.ProfileUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "student-id":
			upd.StudentID = studentID
		case "faculty":
			upd.Faculty = faculty
		}
	})
	if upd.StudentID == nil && upd.Faculty == nil {
		return errors.New("nothing to update: pass -student-id and/or -faculty")
	}
	if err := cmdCtx.Portal.Sessions.UpdateProfile(cmdCtx.Ctx, upd); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	profile, _ := cmdCtx.Portal.Sessions.Profile()
	return printResult(cmdCtx, out, profile)
}
