// Command arraydb is a small demo that drives the buffer pool manager
// against a file-backed disk manager: allocate a page, write into it,
// unpin dirty, fetch it back and show the bytes round-tripped.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/buffer"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/disk"
)

func main() {
	dbFile, err := os.CreateTemp("", "arraydb-*.dat")
	if err != nil {
		log.Fatalf("create db file: %v", err)
	}
	path := dbFile.Name()
	dbFile.Close()
	defer os.Remove(path)

	dm, err := disk.NewFileManager(path, 16)
	if err != nil {
		log.Fatalf("open disk manager: %v", err)
	}
	defer dm.Close()

	pool := buffer.New(buffer.Config{PoolSize: 16, ReplacerK: 2, BucketSize: 4}, dm)

	frame, id, ok := pool.NewPage()
	if !ok {
		log.Fatal("pool exhausted on first page")
	}
	copy(frame.Data(), []byte("hello, arraydb"))
	pool.UnpinPage(id, true)

	fmt.Printf("wrote page %d, pin count now %d\n", id, frame.PinCount())

	fetched, ok := pool.FetchPage(id)
	if !ok {
		log.Fatalf("fetch page %d: miss", id)
	}
	defer pool.UnpinPage(id, false)

	fmt.Printf("fetched page %d: %q\n", fetched.PageID(), fetched.Data()[:14])
}
