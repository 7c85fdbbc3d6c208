package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"caffi/internal/assistant"
	"caffi/internal/catalog"
	"caffi/internal/ipc"
	"caffi/internal/proxy"
	"caffi/internal/server"
	"caffi/internal/speech"
	"caffi/internal/store"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	addr := cli.StringP("addr", "a", ":8093", "HTTP listen address")
	menuPath := cli.StringP("menu", "m", "menu.json", "Menu catalog path")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address, empty for direct")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	noLLM := cli.Bool("no-llm", false, "Skip reply rephrasing, deterministic prompts only")
	noSpeech := cli.Bool("no-speech", false, "Disable transcription and synthesis endpoints")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Error("OPENAI_API_KEY not set")
		os.Exit(1)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if *proxyAddr != "" {
		httpClient, err := proxy.NewSocksClient(*proxyAddr)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
		log.Debug("Loaded proxy")
	}
	client := openai.NewClient(opts...)

	cat, branches, payments, err := catalog.Load(*menuPath)
	if err != nil {
		log.Error("Failed to load menu", "path", *menuPath, "err", err)
		os.Exit(1)
	}

	sessions := store.NewMemory()
	cache, err := store.NewReplyCache()
	if err != nil {
		log.Error("Failed to init reply cache", "err", err)
		os.Exit(1)
	}

	var sp *speech.Client
	if !*noSpeech {
		sp = speech.New(client)
	}

	a := assistant.New(cat, branches, payments, sessions, cache, client, !*noLLM)
	srv := server.New(*addr, a, sp)

	startedAt := time.Now()
	err = ipc.StartServer(func(msg ipc.ControlMessage) ipc.ControlReply {
		switch msg.Cmd {
		case "stats":
			return ipc.ControlReply{OK: true, Output: fmt.Sprintf(
				"sessions: %d\nuptime: %s", sessions.Len(), time.Since(startedAt).Round(time.Second))}
		case "reload-menu":
			cat, branches, payments, err := catalog.Load(*menuPath)
			if err != nil {
				return ipc.ControlReply{Output: fmt.Sprintf("reload: %v", err)}
			}
			srv.Swap(assistant.New(cat, branches, payments, sessions, cache, client, !*noLLM))
			cache.Purge()
			log.Info("Menu reloaded", "path", *menuPath)
			return ipc.ControlReply{OK: true, Output: "menu reloaded"}
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return ipc.ControlReply{Output: "unknown command: " + msg.Cmd}
		}
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	log.Info("Boot up - successful")

	if err := srv.Run(); err != nil {
		log.Error("Server stopped", "err", err)
		os.Exit(1)
	}
}
