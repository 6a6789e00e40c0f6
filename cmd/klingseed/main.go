// klingseed generates and recovers BIP-39 mnemonics and prints the derived
// seed and BIP-32 root key.
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/Klingon-tech/klingseed/config"
	klog "github.com/Klingon-tech/klingseed/internal/log"
	"github.com/Klingon-tech/klingseed/internal/wallet"
	"golang.org/x/term"
)

const version = "0.1.0"

func main() {
	flags, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		usage()
		os.Exit(1)
	}
	if flags.Help {
		usage()
		return
	}
	if flags.Version {
		fmt.Printf("klingseed version %s\n", version)
		return
	}
	if len(flags.Args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fatal("%v", err)
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}
	klog.CLI.Debug().
		Str("datadir", cfg.DataDir).
		Str("locale", string(cfg.Locale)).
		Int("words", int(cfg.WordCount)).
		Msg("Configuration loaded")

	cmd := flags.Args[0]
	cmdArgs := flags.Args[1:]

	switch cmd {
	case "new":
		cmdNew(cmdArgs, cfg)
	case "recover":
		cmdRecover(cmdArgs, cfg)
	case "inspect":
		cmdInspect(cmdArgs)
	case "vault":
		cmdVault(cmdArgs, cfg)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: klingseed [global flags] <command> [flags]

Global flags:
  --datadir <path>    Data directory (default: ~/.klingseed)
  --config, -c <path> Config file (default: <datadir>/klingseed.conf)
  --locale <name>     Word list for new mnemonics (default: english)
  --words <n>         Mnemonic length: 12, 15, 18, 21, 24 (default: 24)
  --log-level <lvl>   debug, info, warn (default), error
  --log-file <path>   Also write JSON logs to this file
  --log-json          Log to stderr as JSON
  --version, -v       Show version

Commands:
  new [--words N] [--locale L] [--save NAME]
                                  Generate a mnemonic, seed and root key
  recover --words N [--mnemonic "..."] [--save NAME]
                                  Rebuild seed and root key from a mnemonic
  inspect <xprv>                  Decode an extended root private key
  vault list                      List stored seeds
  vault show --name <n>           Decrypt a stored seed and print its root key
  vault delete --name <n>         Remove a stored seed

Results are printed to stdout; prompts and logs go to stderr.
`)
}

// ── new ─────────────────────────────────────────────────────────────────

func cmdNew(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	words := fs.Int("words", int(cfg.WordCount), "Mnemonic word count")
	localeName := fs.String("locale", string(cfg.Locale), "Word list locale")
	save := fs.String("save", "", "Store the seed in the vault under this name")
	fs.Parse(args)

	wc, err := wallet.WordCountFromSize(*words)
	if err != nil {
		fatal("%v", err)
	}
	locale, err := wallet.ParseLocale(*localeName)
	if err != nil {
		fatal("%v", err)
	}
	gen, err := wallet.NewGenerator(locale)
	if err != nil {
		fatal("locale %s: %v", locale, err)
	}

	passphrase, err := readPasswordConfirm("BIP-39 passphrase (empty for none): ", readPassword)
	if err != nil {
		fatal("read passphrase: %v", err)
	}

	seedCfg, err := gen.GenerateConfig(wc, string(passphrase))
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}
	klog.Wallet.Info().
		Int("words", int(wc)).
		Str("locale", string(locale)).
		Msg("Mnemonic generated")

	emit(seedCfg, locale, *save, cfg)
}

// ── recover ─────────────────────────────────────────────────────────────

func cmdRecover(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("recover", flag.ExitOnError)
	words := fs.Int("words", 0, "Mnemonic word count (required)")
	mnemonic := fs.String("mnemonic", "", "Mnemonic phrase (prompted if omitted)")
	localeName := fs.String("locale", string(cfg.Locale), "Word list locale recorded in the vault")
	save := fs.String("save", "", "Store the seed in the vault under this name")
	fs.Parse(args)

	wc, err := recoverWordCount(*words)
	if err != nil {
		fatal("%v\nUsage: klingseed recover --words <12|15|18|21|24> [--mnemonic \"...\"] [--save NAME]", err)
	}
	locale, err := wallet.ParseLocale(*localeName)
	if err != nil {
		fatal("%v", err)
	}

	phrase := *mnemonic
	if phrase == "" {
		b, err := readPassword("Mnemonic: ")
		if err != nil {
			fatal("read mnemonic: %v", err)
		}
		phrase = string(b)
	}

	passphrase, err := readPasswordConfirm("BIP-39 passphrase (empty for none): ", readPassword)
	if err != nil {
		fatal("read passphrase: %v", err)
	}

	seedCfg, err := wallet.RecreateConfig(phrase, wc, string(passphrase))
	if err != nil {
		fatal("%v", err)
	}
	klog.Wallet.Info().Int("words", int(wc)).Msg("Mnemonic recreated")

	emit(seedCfg, locale, *save, cfg)
}

var errWordsRequired = errors.New("--words is required")

// recoverWordCount validates the --words value of recover. The configured
// default is not used: the count must describe the phrase being recovered.
func recoverWordCount(n int) (wallet.WordCount, error) {
	if n == 0 {
		return 0, errWordsRequired
	}
	return wallet.WordCountFromSize(n)
}

// emit derives the seed and root key for seedCfg, prints them and
// optionally stores the seed in the vault.
func emit(seedCfg *wallet.Config, locale wallet.Locale, save string, cfg *config.Config) {
	done := klog.Benchmark("derive")
	seed := seedCfg.Seed()
	root, err := wallet.DeriveRootKey(seed)
	done()
	if err != nil {
		fatal("derive root key: %v", err)
	}

	printDerivation(os.Stdout, seedCfg.Mnemonic, seed, root)

	if save == "" {
		return
	}
	vault, err := wallet.OpenVault(cfg.VaultDir(), cfg.Vault.KDFParams())
	if err != nil {
		fatal("open vault: %v", err)
	}
	password, err := readPasswordConfirm("Vault password: ", readPassword)
	if err != nil {
		fatal("read password: %v", err)
	}
	entry, err := vault.Save(save, seedCfg, locale, password)
	if err != nil {
		fatal("save seed: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Seed stored in vault as %q\n", entry.Name)
}

// printDerivation writes the derivation results. An empty mnemonic is
// omitted.
func printDerivation(w io.Writer, mnemonic string, seed wallet.Seed, root *wallet.RootKey) {
	if mnemonic != "" {
		fmt.Fprintln(w, "Mnemonic (write this down!):")
		fmt.Fprintf(w, "  %s\n\n", mnemonic)
	}
	fmt.Fprintf(w, "Seed:     %s\n", seed)
	fmt.Fprintf(w, "Root key: %s\n", root)
	fmt.Fprintf(w, "Root pub: %s\n", root.PublicString())
}

// ── inspect ─────────────────────────────────────────────────────────────

func cmdInspect(args []string) {
	if len(args) != 1 {
		fatal("Usage: klingseed inspect <xprv>")
	}
	root, err := wallet.ParseRootKey(strings.TrimSpace(args[0]))
	if err != nil {
		fatal("parse root key: %v", err)
	}
	printRootKey(os.Stdout, root)
}

func printRootKey(w io.Writer, root *wallet.RootKey) {
	fmt.Fprintf(w, "Version:     %s\n", hex.EncodeToString(wallet.PrivateVersion[:]))
	fmt.Fprintln(w, "Depth:       0")
	fmt.Fprintf(w, "Chain code:  %s\n", hex.EncodeToString(root.ChainCode()))
	fmt.Fprintf(w, "Private key: %s\n", hex.EncodeToString(root.PrivateKey()))
	fmt.Fprintf(w, "Public key:  %s\n", hex.EncodeToString(root.PublicKeyBytes()))
	fmt.Fprintf(w, "Root pub:    %s\n", root.PublicString())
}

// ── vault ───────────────────────────────────────────────────────────────

func cmdVault(args []string, cfg *config.Config) {
	if len(args) < 1 {
		fatal("Usage: klingseed vault <list|show|delete> [flags]")
	}
	vault, err := wallet.OpenVault(cfg.VaultDir(), cfg.Vault.KDFParams())
	if err != nil {
		fatal("open vault: %v", err)
	}

	switch args[0] {
	case "list":
		cmdVaultList(vault)
	case "show":
		cmdVaultShow(args[1:], vault)
	case "delete":
		cmdVaultDelete(args[1:], vault)
	default:
		fatal("Unknown vault command: %s\nUsage: klingseed vault <list|show|delete> [flags]", args[0])
	}
}

func cmdVaultList(vault *wallet.Vault) {
	names, err := vault.List()
	if err != nil {
		fatal("list vault: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No stored seeds.")
		return
	}
	for _, name := range names {
		entry, err := vault.Entry(name)
		if err != nil {
			klog.CLI.Warn().Str("name", name).Err(err).Msg("Skipping unreadable vault entry")
			continue
		}
		printEntry(os.Stdout, entry)
	}
}

func printEntry(w io.Writer, e *wallet.VaultEntry) {
	fmt.Fprintf(w, "%-16s %2d words  %-20s %s  %s\n",
		e.Name, e.WordCount, e.Locale, e.CreatedAt.Format("2006-01-02 15:04"), e.RootPublic)
}

func cmdVaultShow(args []string, vault *wallet.Vault) {
	fs := flag.NewFlagSet("vault show", flag.ExitOnError)
	name := fs.String("name", "", "Vault entry name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: klingseed vault show --name <name>")
	}
	if _, err := vault.Entry(*name); err != nil {
		fatal("%v", err)
	}

	password, err := readPassword("Vault password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	seed, _, err := vault.Open(*name, password)
	if err != nil {
		fatal("%v", err)
	}
	root, err := wallet.DeriveRootKey(seed)
	if err != nil {
		fatal("derive root key: %v", err)
	}
	printDerivation(os.Stdout, "", seed, root)
}

func cmdVaultDelete(args []string, vault *wallet.Vault) {
	fs := flag.NewFlagSet("vault delete", flag.ExitOnError)
	name := fs.String("name", "", "Vault entry name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: klingseed vault delete --name <name>")
	}
	if err := vault.Delete(*name); err != nil {
		fatal("%v", err)
	}
	fmt.Fprintf(os.Stderr, "Deleted %q\n", *name)
}

// ── Password helpers ────────────────────────────────────────────────────

// maxPromptAttempts bounds how often a mismatched confirmation re-prompts.
const maxPromptAttempts = 3

var errPasswordMismatch = errors.New("entries did not match")

var stdin = bufio.NewReader(os.Stdin)

// readPassword reads a secret with echo disabled. When stdin is not a
// terminal it reads one line instead.
func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	if !term.IsTerminal(int(syscall.Stdin)) {
		line, err := stdin.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// readPasswordConfirm reads a secret twice until both entries match.
func readPasswordConfirm(prompt string, read func(string) ([]byte, error)) ([]byte, error) {
	for attempt := 1; attempt <= maxPromptAttempts; attempt++ {
		password, err := read(prompt)
		if err != nil {
			return nil, err
		}
		confirm, err := read("Confirm: ")
		if err != nil {
			return nil, err
		}
		if string(password) == string(confirm) {
			return password, nil
		}
		fmt.Fprintln(os.Stderr, "Entries do not match, try again.")
		klog.CLI.Debug().Int("attempt", attempt).Msg("Confirmation mismatch")
	}
	return nil, fmt.Errorf("%w after %d attempts", errPasswordMismatch, maxPromptAttempts)
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
