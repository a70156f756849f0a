package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	log "log/slog"

	cli "github.com/spf13/pflag"

	"vozc/internal/artifact"
	"vozc/internal/audio"
	"vozc/internal/bus"
	"vozc/internal/config"
	"vozc/internal/ipc"
	"vozc/internal/notify"
	"vozc/internal/nlu"
	"vozc/internal/proxy"
	"vozc/internal/session"
	"vozc/internal/tts"
	"vozc/pkg/pcm"
	"vozc/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, cli.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "vozc:", err)
		os.Exit(2)
	}

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[cfg.Log],
	})))

	log.Info("Booting up")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, stop, cfg); err != nil {
		log.Error("Boot up failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cancel context.CancelFunc, cfg config.Config) error {
	in, err := nlu.NewDefaultInterpreter(cfg.NLU.FuzzyThreshold, cfg.NLU.MatchThreshold)
	if err != nil {
		return fmt.Errorf("build interpreter: %w", err)
	}

	log.Debug("Loaded interpreter", "templates", len(in.Classifier().Templates()))

	capturer, closeCapture, err := newCapturer(cfg, cancel)
	if err != nil {
		return err
	}
	defer closeCapture()

	engine, err := newEngine(cfg, cancel)
	if err != nil {
		return err
	}
	defer engine.Close()

	log.Debug("Loaded transcriber", "engine", engine.Name())

	minRMS := cfg.STT.MinRMS
	if cfg.STT.Backend == "stdin" {
		minRMS = 0
	}

	deps := session.Deps{
		Capturer:    capturer,
		Transcriber: stt.NewTolerant(engine, minRMS),
		Writer:      artifact.NewFileWriter(),
		Reporter:    newReporter(cfg, in),
	}
	if cfg.Audio.Denoise {
		deps.Cleaner = pcm.NewNoiseGate()
	}
	if cfg.View {
		deps.Viewer = artifact.NewSystemViewer()
	}
	if cfg.Notify.Beep && cfg.STT.Backend != "stdin" {
		deps.Notifier = notify.NewBeeper(cfg.Notify.Cue)
	}
	if cfg.Audio.Duck {
		deps.Ducker = audio.NewDucker([]string{"vozc"})
	}

	sess, err := session.New(session.Config{
		OutputPath:    cfg.Output,
		Language:      cfg.Language,
		WakeWindow:    cfg.Listen.Wake,
		CommandWindow: cfg.Listen.Command,
		Pause:         cfg.Listen.Pause,
		WakePhrases:   cfg.Wake.Phrases,
		OpenViewer:    cfg.View,
	}, in, deps)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	// The publisher needs the session id, so it is attached after New.
	if cfg.Bus.URL != "" {
		pub, err := bus.NewPublisher(cfg.Bus.URL, "vozc", sess.ID())
		if err != nil {
			log.Warn("Outcome bus disabled", "url", cfg.Bus.URL, "err", err)
		} else {
			defer pub.Close()
			sess.SetPublisher(pub)
		}
	}

	socket := cfg.Socket
	if socket == "" {
		socket = ipc.DefaultSocketPath()
	}
	srv, err := ipc.StartServer(socket, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case ipc.CmdTrigger:
			sess.Trigger()
		case ipc.CmdStop:
			cancel()
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	})
	if err != nil {
		log.Warn("Control socket disabled", "path", socket, "err", err)
	} else {
		defer srv.Close()
	}

	log.Info("Boot up - successful", "session", sess.ID())
	banner(cfg, in)

	err = sess.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("¡Hasta luego!")
		return nil
	}
	return err
}

func newCapturer(cfg config.Config, cancel context.CancelFunc) (session.Capturer, func(), error) {
	switch {
	case cfg.STT.Backend == "stdin":
		return audio.Silent{}, func() {}, nil
	case len(cfg.Audio.Replay) > 0:
		return audio.NewReplay(cfg.Audio.Replay, cancel), func() {}, nil
	}

	rec := audio.NewRecorder()
	rec.StopOnSilence = cfg.Listen.StopOnSilence
	if err := rec.Init(); err != nil {
		return nil, nil, fmt.Errorf("init audio: %w", err)
	}

	log.Debug("Loaded recorder")
	return rec, rec.Close, nil
}

func newEngine(cfg config.Config, cancel context.CancelFunc) (stt.Engine, error) {
	sc := stt.Config{
		Backend:     cfg.STT.Backend,
		ModelPath:   cfg.STT.Model,
		Threads:     cfg.STT.Threads,
		CLIPath:     cfg.STT.CLI,
		OpenAIModel: cfg.STT.OpenAIModel,
		APIKey:      cfg.STT.APIKey,
		Input:       os.Stdin,
		OnEOF:       cancel,
	}

	if cfg.STT.Backend == "openai" {
		if sc.APIKey == "" {
			return nil, errors.New("OPENAI_API_KEY not set")
		}
		client, err := proxy.NewHTTPClient(cfg.STT.Proxy)
		if err != nil {
			return nil, fmt.Errorf("socks proxy %s: %w", cfg.STT.Proxy, err)
		}
		sc.HTTPClient = client
	}

	engine, err := stt.New(sc)
	if err != nil {
		return nil, fmt.Errorf("init stt: %w", err)
	}
	return engine, nil
}

func newReporter(cfg config.Config, in *nlu.Interpreter) session.Reporter {
	logs := session.LogReporter{Templates: in.Classifier().Templates()}
	if !cfg.Speak {
		return logs
	}
	return session.MultiReporter{logs, tts.Reporter{Lang: cfg.Language}}
}

func banner(cfg config.Config, in *nlu.Interpreter) {
	log.Info("──────── VOZC ────────")
	log.Info("Di una frase de activación", "frases", cfg.Wake.Phrases)
	for _, t := range in.Classifier().Templates() {
		log.Info("  " + t.Usage)
	}
	log.Info("Salida", "path", cfg.Output)
	log.Info("──────────────────────")
}
