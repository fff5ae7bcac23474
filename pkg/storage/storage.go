// Package storage is the blob-store abstraction behind product image
// uploads. Two drivers: local disk (default, dev) and S3-compatible object
// storage (production). The app only ever needs the small surface below;
// rendering URLs for stored keys is the main consumer.
package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/miraedance/atelier/config"
	"github.com/miraedance/atelier/pkg/logger"
)

// Disk is the blob-store driver contract.
type Disk interface {
	// Put writes content under key, overwriting any previous blob.
	Put(key string, content []byte) error

	// PutStream writes from r under key.
	PutStream(key string, r io.Reader) error

	// Get returns the blob stored under key.
	Get(key string) ([]byte, error)

	// GetStream returns a reader for the blob. Caller closes it.
	GetStream(key string) (io.ReadCloser, error)

	// Exists reports whether a blob is stored under key.
	Exists(key string) bool

	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(key string) error

	// URL returns the public download URL for key.
	URL(key string) string
}

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultName string
)

// Connect boots the configured disks. Call once at startup.
func Connect() {
	mu.Lock()
	defer mu.Unlock()

	defaultName = config.StorageDisk()
	disks["local"] = newLocalDisk()

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	if _, ok := disks[defaultName]; !ok {
		logger.Warn("configured storage disk unavailable, using local", "disk", defaultName)
		defaultName = "local"
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := disks[name]
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// Register plugs in a Disk implementation, mainly for tests.
func Register(name string, d Disk) {
	mu.Lock()
	disks[name] = d
	mu.Unlock()
}

func active() Disk { return Use(defaultName) }

// Default-disk helpers.

func Put(key string, content []byte) error       { return active().Put(key, content) }
func PutStream(key string, r io.Reader) error    { return active().PutStream(key, r) }
func Get(key string) ([]byte, error)             { return active().Get(key) }
func GetStream(key string) (io.ReadCloser, error) { return active().GetStream(key) }
func Exists(key string) bool                     { return active().Exists(key) }
func Delete(key string) error                    { return active().Delete(key) }
func URL(key string) string                      { return active().URL(key) }
