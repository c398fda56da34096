package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"blogweb/internal/auth"
	"blogweb/internal/config"
	"blogweb/internal/db"
	"blogweb/internal/theme"
	"blogweb/internal/users"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "user":
		userCmd(os.Args[2:])
	case "theme":
		themeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println(`blogctl - blog admin CLI

Usage:
  blogctl user create <username> [-display "<name>"] [-role user|moderator|admin] [-config config.yaml] [-db postgres://...]
  blogctl theme show

Examples:
  blogctl user create ada
  blogctl user create grace -display "Grace Hopper" -role admin -config ./config.yaml
  blogctl theme show`)
}

func userCmd(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	switch args[0] {
	case "create":
		userCreate(args[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func userCreate(args []string) {
	fs := flag.NewFlagSet("user create", flag.ExitOnError)
	var (
		cfgPath     = fs.String("config", config.Path(), "path to config file")
		dbOverride  = fs.String("db", "", "override database connection URL")
		displayName = fs.String("display", "", "display name (default: username)")
		role        = fs.String("role", users.RoleUser, "role: user|moderator|admin")
	)
	_ = fs.Parse(reorderArgs(args))

	rest := fs.Args()
	if len(rest) < 1 {
		fmt.Println("missing <username>")
		fmt.Println()
		usage()
		os.Exit(2)
	}
	username := strings.TrimSpace(rest[0])
	if username == "" {
		fmt.Println("username cannot be empty")
		os.Exit(2)
	}
	if *displayName == "" {
		*displayName = username
	}
	if !users.ValidRole(*role) {
		fmt.Println("invalid role; must be one of: user|moderator|admin")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil && (cfg == nil || *dbOverride == "") {
		log.Fatalf("config: %v", err)
	}

	appURL, err := resolveDBURL(cfg, *dbOverride)
	if err != nil {
		log.Fatalf("db url: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	pool, err := db.NewPool(ctx, appURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	pw := promptPassword("Password: ")
	pw2 := promptPassword("Confirm password: ")
	if pw != pw2 {
		fmt.Println("passwords do not match")
		os.Exit(1)
	}
	if len(pw) < 8 {
		fmt.Println("password too short (min 8 chars)")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(pw)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	u, err := users.NewPGStore(pool).Create(ctx, username, *displayName, *role, hash)
	if err != nil {
		if errors.Is(err, users.ErrExists) {
			log.Fatalf("username %q already exists", username)
		}
		log.Fatalf("create user: %v", err)
	}
	fmt.Printf("ok: user created\n  id: %s\n  username: %s\n  role: %s\n", u.ID, u.Username, u.Role)
}

func themeCmd(args []string) {
	if len(args) < 1 || args[0] != "show" {
		usage()
		os.Exit(2)
	}
	if err := printTheme(os.Stdout, theme.Default()); err != nil {
		log.Fatalf("theme: %v", err)
	}
}

func printTheme(w io.Writer, t theme.Theme) error {
	if err := t.Validate(); err != nil {
		return err
	}
	for _, name := range t.ColorNames() {
		fmt.Fprintf(w, "%s:\n", name)
		for i, c := range t.Colors[name] {
			mark := ""
			if name == t.PrimaryColor && i == t.PrimaryShade {
				mark = "  <- primary"
			}
			fmt.Fprintf(w, "  %d  %s%s\n", i, c, mark)
		}
	}
	fmt.Fprintf(w, "filled: %s\nhover:  %s\n", t.Filled(), t.Hover())

	fmt.Fprintln(w, "header:")
	widths := []float64{0}
	for _, bp := range theme.Ordered {
		widths = append(widths, t.Breakpoints[bp])
	}
	for _, px := range widths {
		var shown []string
		for _, el := range theme.HeaderElements() {
			if t.Breakpoints.Visible(el, px) {
				shown = append(shown, el.String())
			}
		}
		fmt.Fprintf(w, "  >=%gpx  %s\n", px, strings.Join(shown, " "))
	}
	return nil
}

func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after input
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	return strings.TrimSpace(string(b))
}

func resolveDBURL(cfg *config.Config, override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}
	return cfg.Database.AppURL()
}

// reorderArgs moves flags ahead of positionals so "create ada -role admin"
// parses like "create -role admin ada".
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) > 0 && arg != "-" && arg != "--" && arg[0] == '-' {
			flags = append(flags, arg)
			if !strings.Contains(arg, "=") && i+1 < len(args) && (len(args[i+1]) == 0 || args[i+1][0] != '-') {
				flags = append(flags, args[i+1])
				i++
			}
		} else {
			positional = append(positional, arg)
		}
	}
	return append(flags, positional...)
}
