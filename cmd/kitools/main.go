// Command kitools is a thin wiring layer over the KiTools library: it
// parses flags, opens a port or a USB device, and drives exactly one
// of a sniffer capture, a firmware flash, or a single ad hoc command,
// adapted from the teacher's cmd/smacprint/main.go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/gousb"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/KiraleTech/KiTools/dfu"
	"github.com/KiraleTech/KiTools/internal/config"
	"github.com/KiraleTech/KiTools/kiserial"
	"github.com/KiraleTech/KiTools/sniffer"
)

var (
	port     = kingpin.Flag("port", "Serial port path").String()
	baud     = kingpin.Flag("baud", "Serial baud rate").Default("115200").Uint()
	channel  = kingpin.Flag("channel", "Sniffer capture channel (11-26)").Int()
	live     = kingpin.Flag("live", "Start a sniffer capture on --port/--channel").Bool()
	file     = kingpin.Flag("file", "Capture output file for --live").String()
	debug    = kingpin.Flag("debug", "Debug verbosity, 0-4").Default("0").Int()
	flashDFU = kingpin.Flag("flashdfu", "Flash a .dfu file to every attached USB-DFU device").String()
	flashKBI = kingpin.Flag("flashkbi", "Flash a .dfu file to a device over --port using the KBI path").String()
	cmdText  = kingpin.Arg("command", "A single KiOS text command to send to --port, e.g. \"show channel\"").String()
)

func main() {
	kingpin.Version("1.0.0")
	kingpin.Parse()

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fatalf("loading config: %v", err)
	}

	switch {
	case *flashDFU != "":
		runFlashDFU()
	case *flashKBI != "":
		runFlashKBI(cfg)
	case *live:
		runLive(cfg)
	case *cmdText != "":
		runCommand(cfg)
	default:
		kingpin.Usage()
	}
}

func debugLevel(n int) kiserial.DebugLevel {
	switch {
	case n <= 0:
		return kiserial.DebugNone
	case n == 1:
		return kiserial.DebugKSH
	case n == 2:
		return kiserial.DebugKBI
	case n == 3:
		return kiserial.DebugLogs
	default:
		return kiserial.DebugAll
	}
}

func openPort(cfg *config.Config) (*kiserial.Transport, error) {
	if *port == "" {
		return nil, fmt.Errorf("--port is required")
	}
	b := *baud
	if b == 0 {
		b = cfg.DefaultBaud
	}
	p, err := kiserial.Open(*port, b)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", *port, err)
	}
	tr := kiserial.NewTransport(p, *port, kiserial.ModeShell)
	tr.Debug = debugLevel(*debug)
	return tr, nil
}

func runCommand(cfg *config.Config) {
	tr, err := openPort(cfg)
	if err != nil {
		fatalf("%v", err)
	}
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lines, err := tr.Command(ctx, *cmdText)
	if err != nil {
		fatalf("command failed: %v", err)
	}
	for _, l := range lines {
		fmt.Println(l)
	}
}

func runLive(cfg *config.Config) {
	if *channel < 11 || *channel > 26 {
		fatalf("--channel must be between 11 and 26")
	}

	tr, err := openPort(cfg)
	if err != nil {
		fatalf("%v", err)
	}
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	isSniffer, err := sniffer.IsSniffer(ctx, tr)
	if err != nil {
		fatalf("probing sniffer firmware: %v", err)
	}
	if !isSniffer {
		fatalf("%s does not appear to be running sniffer firmware", *port)
	}

	session := sniffer.NewSession(tr, false)
	if *file == "" {
		sink, desc := defaultLiveSink()
		session.AddSink(sink)
		fmt.Printf("Streaming capture to %s, point Wireshark at it\n", desc)
	} else {
		session.AddSink(sniffer.NewFileSink(*file, false))
	}

	if err := session.Reset(ctx); err != nil {
		fatalf("resetting sniffer: %v", err)
	}
	if err := session.SetChannel(ctx, *channel); err != nil {
		fatalf("setting channel: %v", err)
	}
	if err := session.Start(ctx); err != nil {
		fatalf("starting capture: %v", err)
	}

	fmt.Println("Capturing, press Ctrl-C to stop...")
	waitForInterrupt()

	if err := session.Stop(context.Background()); err != nil {
		fatalf("stopping capture: %v", err)
	}
}

func runFlashKBI(cfg *config.Config) {
	f, err := dfu.Load(*flashKBI)
	if err != nil {
		fatalf("loading firmware file: %v", err)
	}

	if *port == "" {
		fatalf("--port is required")
	}
	b := *baud
	if b == 0 {
		b = cfg.DefaultBaud
	}
	p, err := kiserial.Open(*port, b)
	if err != nil {
		fatalf("opening %s: %v", *port, err)
	}
	defer p.Close()
	binTr := kiserial.NewTransport(p, *port, kiserial.ModeBinary)
	binTr.Debug = debugLevel(*debug)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	err = dfu.NewKBIFlasher(binTr).Flash(ctx, f, func(block, total int) {
		fmt.Printf("\rblock %d/%d", block, total)
	})
	fmt.Println()
	if err != nil {
		fatalf("flash failed: %v", err)
	}
	fmt.Println("done")
}

func runFlashDFU() {
	f, err := dfu.Load(*flashDFU)
	if err != nil {
		fatalf("loading firmware file: %v", err)
	}

	usbCtx := gousb.NewContext()
	defer usbCtx.Close()

	devs, err := dfu.FindUSBDevices(usbCtx)
	if err != nil {
		fatalf("enumerating USB devices: %v", err)
	}
	if len(devs) == 0 {
		fatalf("no Kirale USB-DFU devices found")
	}

	var jobs []dfu.Job
	for _, d := range devs {
		d := d
		serial, _ := d.SerialNumber()
		jobs = append(jobs, dfu.Job{
			Label: serial,
			Run: func(ctx context.Context, progress func(block, total int)) error {
				usbDev, err := dfu.OpenUSBDevice(d)
				if err != nil {
					return err
				}
				defer usbDev.Close()
				return dfu.USBFlash(usbDev, f, progress)
			},
		})
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	results := dfu.RunParallel(ctx, jobs, func(label string, block, total int) {
		fmt.Printf("%s: block %d/%d\n", label, block, total)
	})
	fmt.Print(dfu.Summary(results, time.Since(start)))
}

func waitForInterrupt() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
