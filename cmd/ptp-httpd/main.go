package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "gopkg.in/yaml.v2"

	"github.com/usbptp/goptp/httpapi"
	"github.com/usbptp/goptp/objectstore"
	"github.com/usbptp/goptp/ptp"
	"github.com/usbptp/goptp/transport/usbgousb"
)

// Version is the version number, typically injected via ldflags at build
// time.
var Version = "1"

// ConfigFileName is the YAML config file ptp-httpd loads relative to its
// working directory.
var ConfigFileName = "ptp-httpd.yml"

var k = koanf.New(".")

type config struct {
	Addr    string `yaml:"Addr"`
	Root    string `yaml:"Root"`
	VID     uint16 `yaml:"VID"`
	PID     uint16 `yaml:"PID"`
	Timeout string `yaml:"Timeout"`
}

func setupconfig() {
	k.Load(structs.Provider(config{
		Addr:    ":8080",
		Root:    "/tmp/ptp-downloads",
		VID:     0,
		PID:     0,
		Timeout: "5s",
	}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") {
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `ptp-httpd exposes a PTP/USB imaging device over HTTP.

Usage:
	ptp-httpd <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `ptp-httpd is configured via its .yaml file: VID/PID select the device to
open (hex or decimal, e.g. 0x04A9), Addr is the listen address, Root is
where downloaded objects are saved. mkconf writes the default config.`
	fmt.Println(str)
}

func mkconf() {
	c := config{}
	if err := k.Unmarshal("", &c); err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := yml.NewEncoder(f).Encode(c); err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := config{}
	if err := k.Unmarshal("", &c); err != nil {
		log.Fatal(err)
	}
	if err := yml.NewEncoder(os.Stdout).Encode(c); err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("ptp-httpd version %v\n", Version)
}

// openWithBackoff retries opening the device with an exponential backoff
// while it has not yet enumerated, mirroring comm.go's backoff.Retry use.
// This never retries a protocol-level ResponderError — only the initial USB
// device-open step, which fails with a plain error until the device shows
// up on the bus.
func openWithBackoff(vid, pid uint16) (*usbgousb.Interface, error) {
	var iface *usbgousb.Interface
	op := func() error {
		var err error
		iface, err = usbgousb.Open(vid, pid)
		return err
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}
	return iface, nil
}

func run() {
	cfg := config{}
	k.Unmarshal("", &cfg)

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		log.Fatalf("bad Timeout %q: %v", cfg.Timeout, err)
	}

	iface, err := openWithBackoff(cfg.VID, cfg.PID)
	if err != nil {
		log.Fatalf("opening device 0x%04x:0x%04x: %v", cfg.VID, cfg.PID, err)
	}

	sess := ptp.Open(iface)
	sessionID := uint32(1)
	if err := sess.OpenSession(sessionID, timeout); err != nil {
		log.Fatalf("opening PTP session: %v", err)
	}
	defer sess.Close(timeout)

	store := objectstore.NewDownloader(cfg.Root)

	lock := httpapi.New()
	rt := httpapi.NewDeviceRoutes(sess, store, timeout)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(lock.Check)
	r.Post("/lock", lock.HTTPLock)
	r.Post("/unlock", lock.HTTPUnlock)
	rt.Bind(r)

	log.Println("now listening for requests at", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd := strings.ToLower(args[1])
	switch cmd {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "run":
		run()
	case "version":
		pversion()
	default:
		log.Fatal("unknown command")
	}
}
