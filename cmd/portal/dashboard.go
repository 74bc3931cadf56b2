package main

import (
	"golang.org/x/sync/errgroup"

	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
)

type dashboard struct {
	User        domainauth.UserProfile `json:"user"`
	Unread      int                    `json:"unread"`
	Notices     []model.Notice         `json:"notices"`
	Sets        []model.QuestionSet    `json:"sets"`
	Submissions []model.Submission     `json:"submissions"`
}

const dashboardNotices = 5

// runDashboard loads the home page panels concurrently; any failed panel fails the command.
func runDashboard(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "dashboard")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireLogin(cmdCtx); err != nil {
		return err
	}

	p := cmdCtx.Portal
	var d dashboard
	d.User, _ = p.Sessions.Profile()

	g, ctx := errgroup.WithContext(cmdCtx.Ctx)
	if p.Sessions.IsStudent() {
		g.Go(func() error {
			n, err := p.Tracker.Refresh(ctx)
			d.Unread = n
			return err
		})
	}
	g.Go(func() error {
		notices, err := p.Notices.List(ctx, model.NoticeFilter{})
		if len(notices) > dashboardNotices {
			notices = notices[:dashboardNotices]
		}
		d.Notices = notices
		return err
	})
	g.Go(func() error {
		sets, err := p.Sets.List(ctx)
		d.Sets = sets
		return err
	})
	g.Go(func() error {
		subs, err := p.Submissions.List(ctx)
		d.Submissions = subs
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return printResult(cmdCtx, out, d)
}

