package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gopxl/beep"
	"github.com/jinjor/desktop-synth/src/audio"
	"github.com/jinjor/desktop-synth/src/synth"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	sockFileName = flag.String("socket", "/tmp/desktop-synth.sock", "unix socket for the UI")
	presetDir    = flag.String("presets", "", "preset directory (built-in bank when empty)")
	midiPort     = flag.String("midi", "", "MIDI input port number or name, \"none\" to disable")
	filterKind   = flag.String("filter", "ladder", "filter model: ladder or biquad")
	keys         = flag.Bool("keys", false, "play from the terminal keyboard instead of serving the UI")
	hold         = flag.Duration("hold", 400*time.Millisecond, "note length for terminal keys")
	renderOut    = flag.String("render", "", "render -score to this WAV file and exit")
	scoreFile    = flag.String("score", "", "score file for -render")
	renderRate   = flag.Int("rate", 48000, "sample rate for -render")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	kind, err := synth.ParseFilterKind(*filterKind)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	opts := audio.Options{PresetDir: *presetDir, FilterKind: kind}

	if *renderOut != "" {
		if err := render(opts); err != nil {
			log.Fatalf("error: %v\n", err)
		}
		return
	}

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := audio.NewAudio(opts)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer a.Close()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()

	run := func(ctx context.Context, g *errgroup.Group) {
		g.Go(func() error {
			return a.Start(ctx)
		})
		if *midiPort != "none" {
			g.Go(func() error {
				for data := range audio.ListenToMidiIn(ctx, *midiPort) {
					a.AddMidiEvent(data)
				}
				return nil
			})
		}
	}
	if *keys {
		g, ctx := errgroup.WithContext(ctx)
		run(ctx, g)
		g.Go(func() error {
			defer cancel()
			return audio.RunKeyboard(ctx, a, *hold)
		})
		err = g.Wait()
	} else {
		err = withIPCConnection(ctx, func(conn net.Conn) error {
			g, ctx := errgroup.WithContext(ctx)
			run(ctx, g)
			g.Go(func() error {
				return receiveCommands(ctx, conn, a.CommandCh)
			})
			g.Go(func() error {
				return sendReports(ctx, conn, a)
			})
			return g.Wait()
		})
	}
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func render(opts audio.Options) error {
	if *scoreFile == "" {
		return errors.New("-render needs -score")
	}
	in, err := os.Open(*scoreFile)
	if err != nil {
		return errors.Wrap(err, "failed to open score")
	}
	defer in.Close()
	score, err := audio.ParseScore(in)
	if err != nil {
		return err
	}
	out, err := os.Create(*renderOut)
	if err != nil {
		return errors.Wrap(err, "failed to create output")
	}
	defer out.Close()
	result, err := audio.RenderScore(out, score, opts, beep.SampleRate(*renderRate))
	if err != nil {
		return errors.Wrap(err, "failed to render")
	}
	log.Printf("rendered %d frames to %s (peak %.3f, dominant %.1fHz, muted blocks %d)\n",
		result.Frames, *renderOut, result.Peak, result.DominantFrequency, result.MutedBlocks)
	return nil
}

func withIPCConnection(ctx context.Context, f func(net.Conn) error) error {
	os.Remove(*sockFileName)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", *sockFileName)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		err := listener.Close()
		if err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(*sockFileName)
	}()
	go func() {
		<-ctx.Done()
		listener.Close()
	}()
	log.Printf("start listening...\n")
	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, conn net.Conn, commandCh chan<- []string) error {
	reader := bufio.NewReader(conn)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		command, err := parseCommand(string(line))
		if err != nil {
			return err
		}
		commandCh <- command
		log.Printf("received: %s\n", string(line))
		line = []byte{}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Split(line, " ")
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid command %q", line)
		}
		lineStr[i] = escaped
	}
	return lineStr, nil
}

func sendReports(ctx context.Context, conn net.Conn, audio *audio.Audio) error {
	t := time.NewTicker(time.Second / 10)
	defer t.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			s := "report " + string(audio.Report())
			if _, err := conn.Write([]byte(s + "\n")); err != nil {
				return errors.Wrap(err, "failed to send report")
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}
