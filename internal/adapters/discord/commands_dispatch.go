// aqui solo manejamos la interaccion del slash command y despachamos a los servicios
package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/discord-music-bot/internal/domain"
)

const (
	queuePreview = 10

	msgNoQuery      = "❌ Please provide a song name or URL!"
	msgNotFound     = "❌ Could not find the song. Please try a different query."
	msgEmpty        = "❌ The queue is empty!"
	msgQueueEmpty   = "📭 The queue is empty! Use `/play` to add songs."
	msgNothing      = "❌ Nothing is playing right now!"
	msgUnknown      = "❌ Unknown command!"
	msgQueueFull    = "❌ The queue is full!"
	msgSlowDown     = "⏳ Slow down… try again in a few seconds."
	msgStoreDown    = "⚠️ Queue unavailable, try again."
	msgUnexpected   = "⚠️ Something went wrong handling that command."
	msgPaused       = "⏸️ Music paused! (Note: Full voice connection requires WebSocket - see dashboard for setup)"
	msgResumed      = "▶️ Music resumed! (Note: Full voice connection requires WebSocket - see dashboard for setup)"
	helpTitle       = "🎵 Discord Music Bot - Commands"
	helpFooter      = "For full voice support, configure the bot dashboard"
	helpDescription = "Here are all available commands:"
)

func (r *Router) handleSlashCommand(ctx context.Context, ic *discordgo.Interaction) (resp *discordgo.InteractionResponse) {
	data, _ := ic.Data.(discordgo.ApplicationCommandInteractionData)
	uid, uname := invoker(ic)
	inv := Invocation{
		Data:     data,
		GuildKey: guildKey(ic, uid),
		UserID:   uid,
		UserName: uname,
	}
	log := r.logger(ctx).With("cmd", data.Name, "guild", inv.GuildKey, "user", uid)
	log.Info("slash command")
	defer step(log, "cmd."+data.Name)()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic in slash command", "panic", rec)
			resp = ephemeral(msgUnexpected)
		}
	}()

	switch data.Name {
	case "play":
		return r.play(ctx, inv)
	case "skip":
		return r.skip(ctx, inv)
	case "queue":
		return r.showQueue(ctx, inv)
	case "stop":
		return r.stop(ctx, inv)
	case "pause":
		return message(msgPaused)
	case "resume":
		return message(msgResumed)
	case "nowplaying":
		return r.nowPlaying(ctx, inv)
	case "help":
		return r.help()
	default:
		return ephemeral(msgUnknown)
	}
}

func (r *Router) play(ctx context.Context, inv Invocation) *discordgo.InteractionResponse {
	query, _ := optStr(inv.Data, "query")
	query = strings.TrimSpace(query)
	if query == "" {
		return ephemeral(msgNoQuery)
	}
	if !r.limiter.Allow(inv.UserID) {
		return ephemeral(msgSlowDown)
	}

	lctx, cancel := context.WithTimeout(ctx, r.cfg.LookupTimeout)
	track, err := r.finder.FindTrack(lctx, query)
	cancel()
	if err != nil {
		r.logger(ctx).Warn("play lookup failed", "query", query, "err", err)
		return ephemeral(msgNotFound)
	}

	pos, err := r.queue.Enqueue(ctx, inv.GuildKey, domain.QueueEntry{
		Track:           track,
		RequestedBy:     inv.UserID,
		RequestedByName: inv.UserName,
	})
	if errors.Is(err, domain.ErrQueueFull) {
		return ephemeral(msgQueueFull)
	}
	if err != nil {
		r.logger(ctx).Error("enqueue failed", "guild", inv.GuildKey, "err", err)
		return ephemeral(msgStoreDown)
	}

	return embedReply(&discordgo.MessageEmbed{
		Title:       "🎵 Added to Queue",
		Description: link(track.Title, track.URL),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: track.Thumbnail},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Position", Value: fmt.Sprintf("#%d", pos), Inline: true},
			{Name: "Requested by", Value: mention(inv.UserID), Inline: true},
		},
		Color:     ColorBlurple,
		Timestamp: r.timestamp(),
	})
}

func (r *Router) skip(ctx context.Context, inv Invocation) *discordgo.InteractionResponse {
	skipped, ok, err := r.queue.Skip(ctx, inv.GuildKey)
	if err != nil {
		r.logger(ctx).Error("skip failed", "guild", inv.GuildKey, "err", err)
		return ephemeral(msgStoreDown)
	}
	if !ok {
		return ephemeral(msgEmpty)
	}
	return embedReply(&discordgo.MessageEmbed{
		Title:       "⏭️ Skipped",
		Description: "Skipped: " + link(skipped.Title, skipped.URL),
		Color:       ColorBlurple,
		Timestamp:   r.timestamp(),
	})
}

func (r *Router) showQueue(ctx context.Context, inv Invocation) *discordgo.InteractionResponse {
	q, err := r.queue.Snapshot(ctx, inv.GuildKey)
	if err != nil {
		r.logger(ctx).Error("queue read failed", "guild", inv.GuildKey, "err", err)
		return ephemeral(msgStoreDown)
	}
	if q.Empty() {
		return ephemeral(msgQueueEmpty)
	}

	var b strings.Builder
	for i, e := range q.Entries {
		if i == queuePreview {
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s - %s", i+1, link(e.Title, e.URL), mention(e.RequestedBy))
	}

	return embedReply(&discordgo.MessageEmbed{
		Title:       "📋 Music Queue",
		Description: b.String(),
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Total: %d songs", len(q.Entries))},
		Color:       ColorBlurple,
		Timestamp:   r.timestamp(),
	})
}

func (r *Router) stop(ctx context.Context, inv Invocation) *discordgo.InteractionResponse {
	if err := r.queue.Stop(ctx, inv.GuildKey); err != nil {
		r.logger(ctx).Error("stop failed", "guild", inv.GuildKey, "err", err)
		return ephemeral(msgStoreDown)
	}
	return embedReply(&discordgo.MessageEmbed{
		Title:       "🛑 Stopped",
		Description: "Music stopped and queue cleared!",
		Color:       ColorRed,
		Timestamp:   r.timestamp(),
	})
}

func (r *Router) nowPlaying(ctx context.Context, inv Invocation) *discordgo.InteractionResponse {
	cur, ok, err := r.queue.NowPlaying(ctx, inv.GuildKey)
	if err != nil {
		r.logger(ctx).Error("nowplaying failed", "guild", inv.GuildKey, "err", err)
		return ephemeral(msgStoreDown)
	}
	if !ok {
		return ephemeral(msgNothing)
	}
	return embedReply(&discordgo.MessageEmbed{
		Title:       "🎶 Now Playing",
		Description: link(cur.Title, cur.URL),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: cur.Thumbnail},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Requested by", Value: mention(cur.RequestedBy), Inline: true},
			{Name: "Duration", Value: cur.Duration, Inline: true},
		},
		Color:     ColorGreen,
		Timestamp: r.timestamp(),
	})
}

func (r *Router) help() *discordgo.InteractionResponse {
	return embedReply(&discordgo.MessageEmbed{
		Title:       helpTitle,
		Description: helpDescription,
		Fields:      helpFields(),
		Footer:      &discordgo.MessageEmbedFooter{Text: helpFooter},
		Color:       ColorBlurple,
		Timestamp:   r.timestamp(),
	})
}
