package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Sub-directories of the cache location.
const (
	ResponseDir = "responses/"
	MinioDir    = "miniocache/"
)

// Prefix marks files written by this service. CheckCache only
// removes files carrying it.
const Prefix = "sigmap"

type Cache struct {
	Location string
}

// UrlToCacheFileName uses a url and query string
// to form the cached file name of a response. Distinct urls
// always get distinct names.
func UrlToCacheFileName(url string) string {
	sum := sha256.Sum256([]byte(url))
	return Prefix + hex.EncodeToString(sum[:])
}

func (c *Cache) path(cacheFileName string, subDir string) string {
	return filepath.Join(c.Location, subDir, cacheFileName)
}

// GetDataFromCache retrieves data from a provided `cacheFileName`
// within a `subDir` directory
func (c *Cache) GetDataFromCache(cacheFileName string, subDir string) ([]byte, error) {
	return ioutil.ReadFile(c.path(cacheFileName, subDir))
}

// GetItemFromCache retrieves a file from a `cacheFileName`
// within a `subDir` directory and returns an `io.ReadSeeker`
func (c *Cache) GetItemFromCache(cacheFileName string, subDir string) (io.ReadSeeker, error) {
	return os.Open(c.path(cacheFileName, subDir))
}

// PutItemInCache places `data` into file denoted by `cacheFileName`
// within `subDir`
func (c *Cache) PutItemInCache(cacheFileName string, subDir string, data []byte) error {
	fullPath := c.path(cacheFileName, subDir)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	// Write then rename so readers never see a partial file.
	tmp := fullPath + ".tmp"
	if err := ioutil.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return os.Rename(tmp, fullPath)
}

// Setup creates the cache directories.
func (c *Cache) Setup() error {
	for _, dir := range []string{ResponseDir, MinioDir} {
		if err := os.MkdirAll(filepath.Join(c.Location, dir), 0755); err != nil {
			return fmt.Errorf("creating cache directory %s: %w", dir, err)
		}
	}
	return nil
}

// CheckCache runs a check every `checkInterval` seconds and purges
// the oldest service file while the directory exceeds `maxBytes`.
// It returns when ctx is done.
func CheckCache(ctx context.Context, logger *zap.Logger, cachePath string, checkInterval int, maxBytes int64) {
	ticker := time.NewTicker(time.Duration(checkInterval) * time.Second)
	defer ticker.Stop()
	for {
		for PurgeOldest(logger, cachePath, maxBytes) {
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// PurgeOldest removes the oldest service file in cachePath if the
// files there exceed maxBytes. It reports whether a file was removed.
func PurgeOldest(logger *zap.Logger, cachePath string, maxBytes int64) bool {
	files, err := ioutil.ReadDir(cachePath)
	if err != nil {
		logger.Error("Error reading cache directory", zap.String("path", cachePath), zap.Error(err))
		return false
	}

	var currentBytes int64
	var oldestFile os.FileInfo
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		currentBytes += file.Size()
		if !strings.HasPrefix(file.Name(), Prefix) {
			continue
		}
		if oldestFile == nil || file.ModTime().Before(oldestFile.ModTime()) {
			oldestFile = file
		}
	}
	if currentBytes <= maxBytes {
		return false
	}
	if oldestFile == nil {
		logger.Warn(
			"Cache over maximum but holds no service files",
			zap.String("path", cachePath),
			zap.Int64("bytes", currentBytes),
		)
		return false
	}

	logger.Info(
		"Cache over maximum. Removing old file",
		zap.String("filename", oldestFile.Name()),
		zap.Int64("bytes", currentBytes),
		zap.Int64("max_bytes", maxBytes),
	)
	if err := os.Remove(filepath.Join(cachePath, oldestFile.Name())); err != nil {
		logger.Error("Error removing cache file", zap.Error(err))
		return false
	}
	return true
}
