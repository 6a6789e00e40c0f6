package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	klog "github.com/Klingon-tech/klingseed/internal/log"
)

const (
	vaultVersion = 1
	vaultExt     = ".seed"
)

// ErrEntryExists is returned when saving under a name that is already taken.
var ErrEntryExists = errors.New("vault entry already exists")

// ErrEntryNotFound is returned for an unknown vault entry name.
var ErrEntryNotFound = errors.New("vault entry not found")

var validEntryName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// vaultFile is the on-disk JSON format of one vault entry.
type vaultFile struct {
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	WordCount  int       `json:"word_count"`
	Locale     Locale    `json:"locale"`
	RootPublic string    `json:"root_xpub"`
	SealedSeed []byte    `json:"sealed_seed"`
}

// VaultEntry is the public metadata of a stored seed.
type VaultEntry struct {
	Name       string
	CreatedAt  time.Time
	WordCount  WordCount
	Locale     Locale
	RootPublic string
}

// Vault stores password-encrypted seeds, one JSON file per entry. The
// mnemonic itself is never written.
type Vault struct {
	dir    string
	params KDFParams
}

// OpenVault opens (creating if needed) a vault in dir.
func OpenVault(dir string, params KDFParams) (*Vault, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	return &Vault{dir: dir, params: params}, nil
}

func (v *Vault) entryPath(name string) string {
	return filepath.Join(v.dir, name+vaultExt)
}

// Save encrypts the seed derived from cfg and stores it under name.
func (v *Vault) Save(name string, cfg *Config, locale Locale, password []byte) (*VaultEntry, error) {
	if !validEntryName.MatchString(name) {
		return nil, fmt.Errorf("invalid vault entry name %q", name)
	}
	path := v.entryPath(name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrEntryExists)
	}

	seed := cfg.Seed()
	defer zero(seed[:])

	root, err := DeriveRootKey(seed)
	if err != nil {
		return nil, err
	}
	sealed, err := sealSeed(seed, password, v.params)
	if err != nil {
		return nil, fmt.Errorf("seal seed: %w", err)
	}

	vf := vaultFile{
		Version:    vaultVersion,
		CreatedAt:  time.Now().UTC(),
		WordCount:  int(cfg.WordCount),
		Locale:     locale,
		RootPublic: root.PublicString(),
		SealedSeed: sealed,
	}
	if err := writeVaultFile(path, &vf); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	klog.Vault.Info().
		Str("name", name).
		Int("words", vf.WordCount).
		Str("locale", string(locale)).
		Str("xpub", vf.RootPublic).
		Msg("Seed stored")
	return vf.entry(name), nil
}

// Open decrypts the seed stored under name.
func (v *Vault) Open(name string, password []byte) (Seed, *VaultEntry, error) {
	vf, err := v.read(name)
	if err != nil {
		return Seed{}, nil, err
	}
	seed, err := openSeed(vf.SealedSeed, password)
	if err != nil {
		klog.Vault.Warn().Str("name", name).Err(err).Msg("Failed to open seed")
		return Seed{}, nil, fmt.Errorf("open %s: %w", name, err)
	}
	return seed, vf.entry(name), nil
}

// Entry returns the metadata for name without decrypting anything.
func (v *Vault) Entry(name string) (*VaultEntry, error) {
	vf, err := v.read(name)
	if err != nil {
		return nil, err
	}
	return vf.entry(name), nil
}

// List returns the names of all entries, sorted.
func (v *Vault) List() ([]string, error) {
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return nil, fmt.Errorf("read vault dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != vaultExt {
			continue
		}
		names = append(names, e.Name()[:len(e.Name())-len(vaultExt)])
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the entry stored under name.
func (v *Vault) Delete(name string) error {
	if !validEntryName.MatchString(name) {
		return fmt.Errorf("invalid vault entry name %q", name)
	}
	err := os.Remove(v.entryPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", name, ErrEntryNotFound)
	}
	if err != nil {
		return err
	}
	klog.Vault.Info().Str("name", name).Msg("Seed deleted")
	return nil
}

func (v *Vault) read(name string) (*vaultFile, error) {
	if !validEntryName.MatchString(name) {
		return nil, fmt.Errorf("invalid vault entry name %q", name)
	}
	data, err := os.ReadFile(v.entryPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrEntryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read vault entry: %w", err)
	}
	var vf vaultFile
	if err := json.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("parse vault entry %s: %w", name, err)
	}
	if vf.Version != vaultVersion {
		return nil, fmt.Errorf("unsupported vault entry version: %d", vf.Version)
	}
	return &vf, nil
}

// writeVaultFile creates path exclusively, so a concurrent Save under the
// same name fails with ErrEntryExists instead of overwriting.
func writeVaultFile(path string, vf *vaultFile) error {
	data, err := json.MarshalIndent(vf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal vault entry: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, os.ErrExist) {
		return ErrEntryExists
	}
	if err != nil {
		return fmt.Errorf("create vault entry: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write vault entry: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("write vault entry: %w", err)
	}
	return nil
}

func (vf *vaultFile) entry(name string) *VaultEntry {
	return &VaultEntry{
		Name:       name,
		CreatedAt:  vf.CreatedAt,
		WordCount:  WordCount(vf.WordCount),
		Locale:     vf.Locale,
		RootPublic: vf.RootPublic,
	}
}
