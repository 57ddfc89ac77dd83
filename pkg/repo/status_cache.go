package repo

import (
	"os"
	"reflect"
	"time"

	"github.com/odvcencio/rig/pkg/object"
)

// racyWindow is how old a file's mtime must be before its hash is cached. A
// file modified within the same timestamp tick as a scan could change again
// without its fingerprint changing.
const racyWindow = 2 * time.Second

type fileFingerprint struct {
	ModTimeNano int64
	Size        int64
	HasFileID   bool
	Device      uint64
	Inode       uint64
}

type fileHashCacheEntry struct {
	Fingerprint fileFingerprint
	BlobHash    object.Hash
}

// worktreeBlobHash returns the blob hash of a working file, reusing the hash
// from an earlier scan when the file's stat fingerprint is unchanged.
func (r *Repo) worktreeBlobHash(rel, abs string, info os.FileInfo) (object.Hash, error) {
	fp := fingerprintFromFileInfo(info)
	if h, ok := r.hashCacheLookup(rel, fp); ok {
		return h, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return object.Hash{}, err
	}
	h := object.HashObject(object.TypeBlob, data)
	if time.Since(info.ModTime()) > racyWindow {
		r.hashCacheStore(rel, fp, h)
	}
	return h, nil
}

func (r *Repo) hashCacheLookup(rel string, fp fileFingerprint) (object.Hash, bool) {
	r.hashCacheMu.Lock()
	defer r.hashCacheMu.Unlock()

	entry, ok := r.hashCache[rel]
	if !ok || entry.Fingerprint != fp {
		return object.Hash{}, false
	}
	return entry.BlobHash, true
}

func (r *Repo) hashCacheStore(rel string, fp fileFingerprint, h object.Hash) {
	r.hashCacheMu.Lock()
	defer r.hashCacheMu.Unlock()

	if r.hashCache == nil {
		r.hashCache = make(map[string]fileHashCacheEntry)
	}
	r.hashCache[rel] = fileHashCacheEntry{Fingerprint: fp, BlobHash: h}
}

func fingerprintFromFileInfo(info os.FileInfo) fileFingerprint {
	fp := fileFingerprint{
		ModTimeNano: info.ModTime().UnixNano(),
		Size:        info.Size(),
	}
	if dev, ino, ok := deviceAndInode(info); ok {
		fp.HasFileID = true
		fp.Device = dev
		fp.Inode = ino
	}
	return fp
}

// deviceAndInode reads Dev and Ino from the platform stat struct, if any.
func deviceAndInode(info os.FileInfo) (uint64, uint64, bool) {
	sys := info.Sys()
	if sys == nil {
		return 0, 0, false
	}
	v := reflect.ValueOf(sys)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, 0, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return 0, 0, false
	}

	dev, ok := uintField(v, "Dev")
	if !ok {
		return 0, 0, false
	}
	ino, ok := uintField(v, "Ino")
	if !ok {
		return 0, 0, false
	}
	return dev, ino, true
}

func uintField(v reflect.Value, name string) (uint64, bool) {
	f := v.FieldByName(name)
	if !f.IsValid() {
		return 0, false
	}
	switch f.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return f.Uint(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i := f.Int(); i >= 0 {
			return uint64(i), true
		}
	}
	return 0, false
}
