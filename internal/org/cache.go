package org

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pfrederiksen/orgcrawler/internal/orgerr"
)

// LoadCache reads the organization snapshot from its cache file.
// Returns orgerr.CacheMissing if the file doesn't exist and
// orgerr.CacheStale if it exists but is older than cfg.MaxAgeMin.
func LoadCache(cfg CacheConfig) (*Organization, error) {
	path := filepath.Join(cfg.Dir, cfg.File)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, orgerr.New(orgerr.CacheMissing, "", fmt.Errorf("no cache file at %s", path))
	}
	if err != nil {
		return nil, fmt.Errorf("stat cache file: %w", err)
	}

	age := time.Since(info.ModTime())
	maxAge := time.Duration(cfg.MaxAgeMin) * time.Minute
	if age > maxAge {
		return nil, orgerr.New(orgerr.CacheStale, "", fmt.Errorf("cache file %s is %s old", path, age))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal cache file: %w", err)
	}

	org := &Organization{
		MasterAccountID: cfg.masterAccountIDFromFile(),
		ID:              snap.ID,
		RootID:          snap.RootID,
		Accounts:        snap.Accounts,
		OrgUnits:        snap.OrgUnits,
		Policies:        snap.Policies,
		Cache:           cfg,
	}
	return org, nil
}

// masterAccountIDFromFile recovers the account ID embedded in the
// conventional cache_file-<accountID> name, so a restored Organization
// still knows which account it describes even though that isn't part
// of the JSON payload.
func (cfg CacheConfig) masterAccountIDFromFile() string {
	const prefix = "cache_file-"
	name := filepath.Base(cfg.File)
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return ""
}

// snapshot is the on-disk shape of a cached Organization.
type snapshot struct {
	ID       string                `json:"id"`
	RootID   string                `json:"root_id"`
	Accounts []*Account            `json:"accounts"`
	OrgUnits []*OrganizationalUnit `json:"org_units"`
	Policies []*Policy             `json:"policies"`
}

// SaveCache writes the organization snapshot to its cache file,
// creating the cache directory (mode 0700, since the file holds
// account identifiers and policy attachments) if needed. The write
// goes to a temp file in the same directory first and is renamed into
// place, so a reader never observes a partially written cache file.
func SaveCache(o *Organization) error {
	cfg := o.Cache
	if err := os.MkdirAll(cfg.Dir, 0700); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	snap := snapshot{
		ID:       o.ID,
		RootID:   o.RootID,
		Accounts: o.Accounts,
		OrgUnits: o.OrgUnits,
		Policies: o.Policies,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal organization: %w", err)
	}

	path := filepath.Join(cfg.Dir, cfg.File)
	tmp, err := os.CreateTemp(cfg.Dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp cache file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename cache file into place: %w", err)
	}
	return nil
}

// PurgeCache removes the cache file for cfg, if any. Missing files are
// not an error.
func PurgeCache(cfg CacheConfig) error {
	path := filepath.Join(cfg.Dir, cfg.File)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}
