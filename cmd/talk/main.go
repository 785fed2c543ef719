package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"ai-voicetutor-be/internal/dto"
	"ai-voicetutor-be/pkg/audio"
	"ai-voicetutor-be/pkg/conversation"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// wavRecorder adapts the sample recorder to the machine, which wants the clip
// already WAV-encoded.
type wavRecorder struct {
	rec *audio.Recorder
}

func (r *wavRecorder) Start() error {
	return r.rec.Start()
}

func (r *wavRecorder) Stop() ([]byte, error) {
	return r.rec.StopWAV()
}

func main() {
	_ = godotenv.Load()

	var (
		serverURL   = flag.String("server", envOr("TALK_SERVER_URL", "http://localhost:3000"), "tutor server base URL")
		token       = flag.String("token", os.Getenv("TALK_TOKEN"), "bearer token for the tutor API")
		sessionType = flag.String("type", "chat", "session type: chat or roleplay")
		language    = flag.String("language", "", "tutoring language code (en, hi, mr, gu, ta)")
		scenario    = flag.String("scenario", "", "roleplay scenario id (school, store, home)")
		forceNew    = flag.Bool("new", false, "start a fresh session instead of resuming today's")
	)
	flag.Parse()

	if *token == "" {
		log.Fatal("Error: a token is required (-token or TALK_TOKEN)")
	}

	device, err := audio.NewMalgoDevice()
	if err != nil {
		log.Fatalf("Error: microphone unavailable: %v", err)
	}
	defer device.Close()

	player, err := newOtoPlayer()
	if err != nil {
		log.Fatalf("Error: speaker unavailable: %v", err)
	}

	client := newTalkClient(strings.TrimRight(*serverURL, "/"), *token, dto.StartSessionRequest{
		Type:       *sessionType,
		Language:   *language,
		ScenarioId: *scenario,
	}, *forceNew)

	machine := conversation.NewMachine(&wavRecorder{rec: audio.NewRecorder(device)}, client, player)
	defer machine.Close()

	tutorColor := color.New(color.FgCyan, color.Bold)
	youColor := color.New(color.FgGreen)
	dimColor := color.New(color.Faint)

	ctx := context.Background()

	greeting, err := machine.Open(ctx)
	if err != nil {
		log.Fatalf("Error: could not start session: %v", err)
	}
	tutorColor.Printf("Tutor: %s\n", greeting.Text)
	dimColor.Println("[Enter] talk / stop talking, type to send text, 'q' to quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "q":
			return

		case line == "":
			if machine.State() == conversation.StateListening {
				result, err := machine.FinishTurn(ctx)
				if err != nil {
					printTurnError(err)
					continue
				}
				if result.Transcript != "" {
					youColor.Printf("You: %s\n", result.Transcript)
				}
				tutorColor.Printf("Tutor: %s\n", result.Reply)
			} else {
				if err := machine.Listen(); err != nil {
					printTurnError(err)
					continue
				}
				dimColor.Println("[listening... press Enter to finish]")
			}

		default:
			result, err := client.SendText(ctx, line)
			if err != nil {
				printTurnError(err)
				continue
			}
			tutorColor.Printf("Tutor: %s\n", result.Reply)
			if len(result.Audio) > 0 {
				_ = player.Play(ctx, result.Audio)
			}
		}
	}
}

func printTurnError(err error) {
	switch {
	case errors.Is(err, audio.ErrClipTooShort):
		fmt.Println("That was too short, hold the mic a little longer.")
	case errors.Is(err, conversation.ErrBusy):
		fmt.Println("Still working on the last turn, one moment.")
	case errors.Is(err, conversation.ErrClosed):
		fmt.Println("The conversation is closed.")
	default:
		color.Red("Error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
