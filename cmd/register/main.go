package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jose-valero/discord-music-bot/internal/adapters/discord"
	"github.com/jose-valero/discord-music-bot/internal/infra/config"
)

func main() {
	guild := flag.String("guild", "", "guild id (vacío = registro global, tarda hasta 1h)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.CanRegister() {
		log.Fatal("Missing DISCORD_BOT_TOKEN or DISCORD_CLIENT_ID environment variables")
	}

	s, err := discord.NewSession(cfg.BotAuth())
	if err != nil {
		log.Fatalf("discord session: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cmds, err := discord.RegisterCommands(ctx, s, cfg.DiscordClientID, *guild)
	if err != nil {
		log.Fatalf("❌ register: %v", err)
	}

	if *guild != "" {
		fmt.Printf("✅ Successfully registered %d commands to guild %s\n", len(cmds), *guild)
	} else {
		fmt.Printf("✅ Successfully registered %d global commands\n", len(cmds))
	}
	for _, c := range cmds {
		fmt.Printf("  /%s  %s\n", c.Name, c.Description)
	}
}
