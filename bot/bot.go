package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/command"
	"github.com/TheFungusAmongUs/GeoBot/grpc/service"
	"github.com/TheFungusAmongUs/GeoBot/handler"
	"github.com/TheFungusAmongUs/GeoBot/handler/submission"
	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/review"
	"github.com/TheFungusAmongUs/GeoBot/store"
	"github.com/TheFungusAmongUs/GeoBot/utils"
)

// Start 启动机器人, blocking until SIGINT or SIGTERM.
func Start(cfg *model.Config) error {
	if cfg.Token == "" {
		return errors.New("TOKEN is not configured")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 使用提供的机器人令牌创建一个新的 Discord 会话
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("creating Discord session: %w", err)
	}

	stores, err := store.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Printf("Error closing stores: %v", err)
		}
	}()

	directory := platform.NewDirectory(dg)
	env := review.NewEnv(dg, stores, cfg)
	registry := review.NewRegistry()

	var query *service.Server
	if cfg.GRPC.ListenAddress != "" {
		query = service.NewServer(service.NewSubmissionService(stores, cfg.GuildID, cfg.ApprovalChannelID))
		go func() {
			if err := query.ListenAndServe(cfg.GRPC.ListenAddress); err != nil {
				log.Printf("gRPC query service stopped: %v", err)
			}
		}()
		defer query.Stop()
	}

	// Controls must be attached before the gateway delivers any interaction.
	n, err := review.NewRehydrator(env, registry, directory).Rehydrate(ctx)
	if err != nil {
		log.Printf("Some stores could not be rehydrated: %v", err)
	}
	log.Printf("Rehydrated %d review controls", n)
	if query != nil {
		query.MarkServing()
	}

	pending := utils.NewCache(cfg.Review.PendingTTL)
	go pending.Run(ctx)

	dataDir := cfg.Storage.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	panel := submission.NewPanel(dg, cfg.CreatePostChannelID, filepath.Join(dataDir, "panel.json"))

	router := handler.NewRouter()
	submission.New(cfg, env, registry, pending, directory, panel).RegisterHandlers(router)
	registerEventHandlers(dg, router)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("opening connection: %w", err)
	}
	defer dg.Close()

	for _, guildID := range cfg.Commands.Allowguils {
		for _, cmd := range command.AllCommands {
			if _, err := dg.ApplicationCommandCreate(dg.State.User.ID, guildID, cmd); err != nil {
				return fmt.Errorf("cannot create '%v' command: %w", cmd.Name, err)
			}
		}
	}

	if posted, err := panel.Ensure(ctx); err != nil {
		log.Printf("Error ensuring submission panel: %v", err)
	} else if posted {
		log.Printf("Posted submission panel to %s", cfg.CreatePostChannelID)
	}

	go rotatePresence(ctx, dg, presenceInterval, randomMapName)

	log.Printf("Bot is now running. Press CTRL-C to exit.")
	<-ctx.Done()
	log.Printf("Shutting down")
	return nil
}
