package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/birthday/internal/gallery"
	"git.home.luguber.info/inful/birthday/internal/logfields"
	"git.home.luguber.info/inful/birthday/internal/session"
)

// ChangeFeed delivers listing changes, such as a server's change stream.
type ChangeFeed interface {
	Run(ctx context.Context, fn func(gallery.Change)) error
}

// Run shows sess in the terminal until the user quits or ctx is cancelled.
// When feed is non-nil every announced change refreshes the session, and a
// feed failure stops the player with that error.
func Run(ctx context.Context, sess *session.Session, feed ChangeFeed, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snap, err := sess.Snapshot(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	p := tea.NewProgram(New(gctx, sess, snap), append([]tea.ProgramOption{tea.WithContext(gctx)}, opts...)...)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
			// Killed by cancellation; a feed failure is what g.Wait reports.
			return nil
		}
		return err
	})
	if feed != nil {
		g.Go(func() error {
			err := feed.Run(gctx, func(c gallery.Change) {
				if err := sess.Refresh(gctx, c.Category); err != nil {
					slog.Debug("Refresh after change failed",
						logfields.Category(string(c.Category)), logfields.Error(err))
					p.Send(refreshErrMsg{category: c.Category, err: err})
					return
				}
				p.Send(changeMsg(c))
			})
			if err != nil {
				return fmt.Errorf("change feed: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}
