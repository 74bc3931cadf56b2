package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
)

func runSets(cmdCtx *commandContext, args []string) error {
	if err := requireLogin(cmdCtx); err != nil {
		return err
	}
	return dispatch(cmdCtx, "sets", map[string]subcommand{
		"list":   setsList,
		"get":    setsGet,
		"create": setsCreate,
		"update": setsUpdate,
		"delete": setsDelete,
	}, args)
}

func setsList(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "sets list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sets, err := cmdCtx.Portal.Sets.List(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, sets)
}

func setsGet(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "sets get")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	set, err := cmdCtx.Portal.Sets.Get(cmdCtx.Ctx, id)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, set)
}

// readSetFile decodes a question set document written as the backend's JSON.
func readSetFile(path string) (model.QuestionSet, error) {
	var set model.QuestionSet
	if path == "" {
		return set, errors.New("a -file with the question set JSON is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return set, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &set); err != nil {
		return set, fmt.Errorf("decode %s: %w", path, err)
	}
	return set, nil
}

func setsCreate(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "sets create")
	file := fs.String("file", "", "question set JSON document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := readSetFile(*file)
	if err != nil {
		return err
	}
	set, err := cmdCtx.Portal.Sets.Create(cmdCtx.Ctx, in)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, set)
}

func setsUpdate(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "sets update")
	file := fs.String("file", "", "question set JSON document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	in, err := readSetFile(*file)
	if err != nil {
		return err
	}
	set, err := cmdCtx.Portal.Sets.Update(cmdCtx.Ctx, id, in)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, set)
}

func setsDelete(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "sets delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	if err := cmdCtx.Portal.Sets.Delete(cmdCtx.Ctx, id); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "deleted question set %d\n", id)
}

func runSubmissions(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "submissions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireLogin(cmdCtx); err != nil {
		return err
	}
	subs, err := cmdCtx.Portal.Submissions.List(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, subs)
}
