package main

import (
	"strings"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
)

func runForum(cmdCtx *commandContext, args []string) error {
	if err := requireLogin(cmdCtx); err != nil {
		return err
	}
	return dispatch(cmdCtx, "forum", map[string]subcommand{
		"list":           forumList,
		"ask":            forumAsk,
		"delete":         forumDelete,
		"like":           forumLike,
		"sticky":         forumSticky,
		"comment":        forumComment,
		"delete-comment": forumDeleteComment,
	}, args)
}

func forumList(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "forum list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	questions, err := cmdCtx.Portal.Forum.ListQuestions(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, questions)
}

func forumAsk(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "forum ask")
	title := fs.String("title", "", "thread title")
	content := fs.String("content", "", "thread body")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, err := cmdCtx.Portal.Forum.CreateQuestion(cmdCtx.Ctx, model.ForumQuestionInput{
		Title:   strings.TrimSpace(*title),
		Content: *content,
	})
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, q)
}

func forumDelete(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "forum delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	if err := cmdCtx.Portal.Forum.DeleteQuestion(cmdCtx.Ctx, id); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "deleted thread %d\n", id)
}

func forumLike(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "forum like")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	q, err := cmdCtx.Portal.Forum.ToggleLike(cmdCtx.Ctx, id)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, q)
}

func forumSticky(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "forum sticky")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	q, err := cmdCtx.Portal.Forum.ToggleSticky(cmdCtx.Ctx, id)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, q)
}

func forumComment(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "forum comment")
	content := fs.String("content", "", "reply text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	c, err := cmdCtx.Portal.Forum.AddComment(cmdCtx.Ctx, id, *content)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, c)
}

func forumDeleteComment(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "forum delete-comment")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	if err := cmdCtx.Portal.Forum.DeleteComment(cmdCtx.Ctx, id); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "deleted comment %d\n", id)
}
