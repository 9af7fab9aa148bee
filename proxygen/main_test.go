package main

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestRealPackageLoader_LoadsCurrentPackage(t *testing.T) {
	t.Parallel()

	loader := &realPackageLoader{}

	files, fset, err := loader.Load(".")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if fset == nil {
		t.Error("Expected non-nil FileSet")
	}

	if len(files) == 0 || files[0].Name.Name != "main" {
		t.Error("Expected the files of package main")
	}

	path, err := loader.ImportPath()
	if err != nil {
		t.Fatalf("ImportPath failed: %v", err)
	}

	if path != "github.com/toejough/improxy/proxygen" {
		t.Errorf("ImportPath() = %q", path)
	}
}

func TestRealFileSystem_RoundTrip(t *testing.T) {
	t.Parallel()

	fileSys := &realFileSystem{}
	name := filepath.Join(t.TempDir(), "generated_ProxyStore.go")

	_, err := fileSys.ReadFile(name)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() of a missing file error = %v, want fs.ErrNotExist", err)
	}

	err = fileSys.WriteFile(name, []byte("package store\n"), 0o600)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fileSys.ReadFile(name)
	if err != nil || string(data) != "package store\n" {
		t.Errorf("ReadFile() = %q, %v", data, err)
	}
}
