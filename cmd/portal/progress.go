package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
)

func runProgress(cmdCtx *commandContext, args []string) error {
	return dispatch(cmdCtx, "progress", map[string]subcommand{
		"show":  progressShow,
		"save":  progressSave,
		"clear": progressClear,
		"code":  progressCode,
	}, args)
}

// progressTarget parses "<experiment-id>" and an optional -question flag.
func progressTarget(fs *flag.FlagSet, question int64) (int64, int64, error) {
	expID, err := parseIDArg(fs)
	if err != nil {
		return 0, 0, err
	}
	if question < 0 {
		return 0, 0, fmt.Errorf("invalid question id %d", question)
	}
	return expID, question, nil
}

func progressShow(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "progress show")
	question := fs.Int64("question", 0, "show the coding draft of this question instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	expID, qID, err := progressTarget(fs, *question)
	if err != nil {
		return err
	}

	store := cmdCtx.Portal.Progress
	if qID > 0 {
		draft, ok := store.LoadCodingProgress(cmdCtx.Ctx, expID, qID)
		if !ok {
			return fmt.Errorf("no saved code for experiment %d question %d", expID, qID)
		}
		return printResult(cmdCtx, out, draft)
	}
	saved, ok := store.LoadProgress(cmdCtx.Ctx, expID)
	if !ok {
		return fmt.Errorf("no saved answers for experiment %d", expID)
	}
	return printResult(cmdCtx, out, saved)
}

func progressSave(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "progress save")
	file := fs.String("file", "", "answers JSON document ({\"choice\":{...},\"fill\":{...},\"coding\":{...}})")
	if err := fs.Parse(args); err != nil {
		return err
	}
	expID, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	if *file == "" {
		return errors.New("a -file with the answers JSON is required")
	}
	raw, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read %s: %w", *file, err)
	}
	var answers model.Answers
	if err := json.Unmarshal(raw, &answers); err != nil {
		return fmt.Errorf("decode %s: %w", *file, err)
	}
	saved, err := cmdCtx.Portal.Progress.SaveProgress(cmdCtx.Ctx, expID, answers)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, saved)
}

// progressCode saves the contents of -file as the draft of one coding question.
func progressCode(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "progress code")
	question := fs.Int64("question", 0, "coding question id")
	file := fs.String("file", "", "source file holding the draft")
	if err := fs.Parse(args); err != nil {
		return err
	}
	expID, qID, err := progressTarget(fs, *question)
	if err != nil {
		return err
	}
	if qID == 0 || *file == "" {
		return errors.New("both -question and -file are required")
	}
	code, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read %s: %w", *file, err)
	}
	if err := cmdCtx.Portal.Progress.SaveCodingProgress(cmdCtx.Ctx, expID, qID, model.CodingProgress{Code: string(code)}); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "saved draft for experiment %d question %d\n", expID, qID)
}

func progressClear(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "progress clear")
	question := fs.Int64("question", 0, "clear only the coding draft of this question")
	if err := fs.Parse(args); err != nil {
		return err
	}
	expID, qID, err := progressTarget(fs, *question)
	if err != nil {
		return err
	}
	store := cmdCtx.Portal.Progress
	if qID > 0 {
		return store.ClearCodingProgress(cmdCtx.Ctx, expID, qID)
	}
	return store.ClearProgress(cmdCtx.Ctx, expID)
}
