package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/vaultrun/scaperoom-backend/internal/client"
	"github.com/vaultrun/scaperoom-backend/internal/config"
	"github.com/vaultrun/scaperoom-backend/internal/mission"
	"github.com/vaultrun/scaperoom-backend/internal/team"
	"github.com/vaultrun/scaperoom-backend/pkg/protocol"
)

// Headless squad client. Joins a room, reserves an identity, and once the
// mission launches plays every sector straight through, opens the vault and
// reports completion. Useful for demos and for smoke-testing a live host.
func main() {
	code := flag.String("code", "", "room code to join")
	name := flag.String("squad", "Cobra", "identity to reserve")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	if *code == "" {
		log.Fatal("missing -code")
	}

	ctx := context.Background()
	c, err := client.Dial(ctx, cfg.PublicURL, *code)
	if err != nil {
		log.Fatal("dial", zap.Error(err))
	}
	defer c.Close()

	t := team.New()
	inbound := make(chan protocol.Envelope)
	errs := make(chan error, 1)
	go func() {
		for {
			env, err := c.Receive(ctx)
			if err != nil {
				errs <- err
				return
			}
			inbound <- env
		}
	}()

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errs:
			log.Fatal("link lost", zap.Error(err))

		case now := <-ticker.C:
			t.Tick(now)

		case env := <-inbound:
			switch env.Type {
			case protocol.KindSyncIdentities:
				t.ApplySync(env.Reserved)
				if t.Stage() == team.StageChoosing {
					if err := t.Request(*name); err == nil {
						_ = c.Send(ctx, protocol.RequestIdentity(*name))
					}
				}

			case protocol.KindIdentityAccepted:
				t.ApplyAccepted()
				log.Info("identity reserved", zap.String("squad", t.Identity()))

			case protocol.KindIdentityDenied:
				t.ApplyDenied()
				log.Fatal("identity taken, pick another squad")

			case protocol.KindLaunchMission:
				t.ApplyMission(env.Keyword, env.Sectors)
				log.Info("mission received", zap.Int("sectors", len(env.Sectors)))
				play(ctx, log, c, t)
				return
			}
		}
	}
}

// play answers every question correctly, submits the collected access codes
// and reports completion.
func play(ctx context.Context, log *zap.Logger, c *client.Client, t *team.Session) {
	codes := make([]string, 0, mission.TotalSectors)
	for _, s := range t.Sectors() {
		for _, q := range s.Questions {
			if _, err := t.Answer(s.ID, q.CorrectIndex, time.Now()); err != nil {
				log.Fatal("answer rejected", zap.Int("sector", s.ID), zap.Error(err))
			}
		}
		codes = append(codes, s.AccessCode)
		_ = c.Send(ctx, protocol.SquadProgress(t.Identity(), t.SolvedCount()))
	}

	if err := t.SubmitVault(codes); err != nil {
		log.Fatal("vault rejected", zap.Error(err))
	}
	if err := c.Send(ctx, protocol.TeamFinished(t.Identity())); err != nil {
		log.Fatal("report completion", zap.Error(err))
	}
	log.Info("vault opened", zap.String("keyword", t.Keyword()))
}
