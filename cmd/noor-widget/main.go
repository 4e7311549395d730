// noor-widget prints the persisted next-event summary for status bars
// (tmux, waybar, polybar). It reads only the state written by the noor CLI
// and never touches the network, so it is safe to call every few seconds.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/noorapp/noor/internal/store"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	dataDir := flag.String("data-dir", "", "State directory (default: ~/.local/share/noor/)")
	show := flag.String("show", "next", "What to print: next, sehri, iftar, or all")
	raw := flag.Bool("raw", false, "Print 24-hour times instead of 12-hour")
	toggleTheme := flag.Bool("toggle-theme", false, "Flip the persisted dark-mode flag and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("noor-widget %s\n", version)
		return
	}

	if err := run(*dataDir, *show, *raw, *toggleTheme); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(dataDir, show string, raw, toggleTheme bool) error {
	s, err := store.OpenBolt(dataDir)
	if err != nil {
		return err
	}
	defer s.Close()

	if toggleTheme {
		current, _, _ := s.Get(store.KeyDarkMode)
		next := "true"
		if current == "true" {
			next = "false"
		}
		return s.Set(store.KeyDarkMode, next)
	}

	get := func(key string) string {
		v, _, _ := s.Get(key)
		return v
	}

	sehriKey, iftarKey := store.KeySehri, store.KeyIftar
	if raw {
		sehriKey, iftarKey = store.KeySehriRaw, store.KeyIftarRaw
	}

	switch show {
	case "next":
		name, at := get(store.KeyNextEvent), get(store.KeyNextTime)
		if name == "" {
			fmt.Println("noor: no data")
			return nil
		}
		fmt.Printf("%s %s in %s\n", themeIcon(get(store.KeyDarkMode)), name, at)
	case "sehri":
		fmt.Println(get(sehriKey))
	case "iftar":
		fmt.Println(get(iftarKey))
	case "all":
		fmt.Printf("Sehri %s | Iftar %s | Next: %s in %s\n",
			get(sehriKey), get(iftarKey), get(store.KeyNextEvent), get(store.KeyNextTime))
	default:
		return fmt.Errorf("unknown --show value %q (use next, sehri, iftar, or all)", show)
	}

	return nil
}

// themeIcon mirrors the app's theme toggle in the status bar.
func themeIcon(darkMode string) string {
	if darkMode == "true" {
		return "☾"
	}
	return "☀"
}
