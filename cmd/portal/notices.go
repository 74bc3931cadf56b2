package main

import (
	"errors"
	"strings"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
)

func runNotices(cmdCtx *commandContext, args []string) error {
	if err := requireLogin(cmdCtx); err != nil {
		return err
	}
	return dispatch(cmdCtx, "notices", map[string]subcommand{
		"list":     noticesList,
		"get":      noticesGet,
		"create":   noticesCreate,
		"update":   noticesUpdate,
		"delete":   noticesDelete,
		"unread":   noticesUnread,
		"read":     noticesRead,
		"read-all": noticesReadAll,
	}, args)
}

func noticesList(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "notices list")
	search := fs.String("search", "", "title or content filter")
	typ := fs.Int("type", 0, "notice type filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	notices, err := cmdCtx.Portal.Notices.List(cmdCtx.Ctx, model.NoticeFilter{Search: *search, Type: *typ})
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, notices)
}

func noticesGet(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "notices get")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	notice, err := cmdCtx.Portal.Notices.Get(cmdCtx.Ctx, id)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, notice)
}

type noticeFlags struct {
	title   *string
	content *string
	typ     *int
}

func (f noticeFlags) input() model.NoticeInput {
	return model.NoticeInput{Title: strings.TrimSpace(*f.title), Content: *f.content, Type: *f.typ}
}

func noticesCreate(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "notices create")
	nf := noticeFlags{
		title:   fs.String("title", "", "notice title"),
		content: fs.String("content", "", "notice body"),
		typ:     fs.Int("type", 0, "notice type"),
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	notice, err := cmdCtx.Portal.Notices.Create(cmdCtx.Ctx, nf.input())
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, notice)
}

func noticesUpdate(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "notices update")
	nf := noticeFlags{
		title:   fs.String("title", "", "notice title"),
		content: fs.String("content", "", "notice body"),
		typ:     fs.Int("type", 0, "notice type"),
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	notice, err := cmdCtx.Portal.Notices.Update(cmdCtx.Ctx, id, nf.input())
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, notice)
}

func noticesDelete(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "notices delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	if err := cmdCtx.Portal.Notices.Delete(cmdCtx.Ctx, id); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "deleted notice %d\n", id)
}

func noticesUnread(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "notices unread")
	if err := fs.Parse(args); err != nil {
		return err
	}
	count, err := cmdCtx.Portal.Tracker.Refresh(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, model.UnreadCount{Count: count})
}

// noticesRead marks every id argument as read concurrently.
func noticesRead(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "notices read")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errMissingID
	}
	ids := make([]int64, 0, fs.NArg())
	for _, raw := range fs.Args() {
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if !cmdCtx.Portal.Sessions.IsStudent() {
		return errors.New("only students track read notices")
	}
	if err := cmdCtx.Portal.Notices.MarkManyAsRead(cmdCtx.Ctx, ids); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "marked %d notice(s) as read\n", len(ids))
}

func noticesReadAll(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "notices read-all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tracker := cmdCtx.Portal.Tracker
	if _, err := tracker.Refresh(cmdCtx.Ctx); err != nil {
		return err
	}
	before := tracker.Count()
	if err := tracker.MarkAllAsRead(cmdCtx.Ctx); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "marked %d notice(s) as read\n", before)
}
