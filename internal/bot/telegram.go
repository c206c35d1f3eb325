package bot

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"chainpulse/internal/cache"
	"chainpulse/internal/domain"
)

// StartTelegramBot serves cached snapshots over Telegram. Does nothing when
// no token is configured.
func StartTelegramBot(c *cache.SnapshotCache) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(tc tele.Context) error {
		return tc.Send("pong")
	})

	b.Handle("/price", func(tc tele.Context) error {
		args := tc.Args()
		if len(args) == 0 {
			return tc.Send(fmt.Sprintf("Usage: /price BTC\nSupported: %s", strings.Join(domain.SupportedSymbols, ", ")))
		}
		symbol := strings.ToUpper(args[0])
		coinID, ok := domain.CoinGeckoID[symbol]
		if !ok {
			return tc.Send(fmt.Sprintf("Unknown symbol: %s\nSupported: %s", symbol, strings.Join(domain.SupportedSymbols, ", ")))
		}
		return tc.Send(formatPrice(c, symbol, coinID))
	})

	b.Handle("/feargreed", func(tc tele.Context) error {
		snap, ok := c.GetIndex(domain.IndexFearGreed)
		if !ok {
			return tc.Send("No fear & greed reading yet, try again in a minute")
		}
		msg := fmt.Sprintf("Fear & Greed Index: %.0f (%s)", snap.Value, snap.Classification)
		if snap.Advice != "" {
			msg += "\n" + snap.Advice
		}
		return tc.Send(msg)
	})

	b.Handle("/altseason", func(tc tele.Context) error {
		snap, ok := c.GetIndex(domain.IndexAltcoinSeason)
		if !ok {
			return tc.Send("No altcoin season reading yet, try again in a minute")
		}
		return tc.Send(fmt.Sprintf(
			"Altcoin Season Index: %.0f (%s)\n%d of %d top coins are outperforming BTC",
			snap.Value, snap.Classification, snap.OutperformingCount, snap.TotalCount,
		))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatPrice(c *cache.SnapshotCache, symbol, coinID string) string {
	snap, ok := c.Get(coinID)
	if !ok {
		return fmt.Sprintf("No cached data for %s yet, try again in a minute", symbol)
	}

	msg := fmt.Sprintf("%s\nPrice: $%.2f", symbol, snap.CurrentPrice)
	if snap.PriceChange24h != nil {
		msg += fmt.Sprintf("\n24h Change: %.2f%%", *snap.PriceChange24h)
	}
	if snap.Volume24h != nil {
		msg += fmt.Sprintf("\n24h Volume: $%.0f", *snap.Volume24h)
	}
	if osc := snap.Indicators.Oscillator; osc != nil && osc.Signal != domain.SignalNormal {
		msg += fmt.Sprintf("\nMomentum: %s (%.1f)", osc.Signal, osc.Value)
	}
	return msg
}
