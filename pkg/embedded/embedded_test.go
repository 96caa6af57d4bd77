package embedded

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/game.yaml":                        {Data: []byte("groundY: 900\n")},
		"data/problems/two_sum.yaml":            {Data: []byte("id: two_sum\n")},
		"data/problems/contains_duplicate.yaml": {Data: []byte("id: contains_duplicate\n")},
		"data/solutions/two_sum.js":             {Data: []byte("function twoSum() {}\n")},
	}
}

func reset(t *testing.T) {
	t.Helper()
	initialized = false
	dataFS = nil
	t.Cleanup(func() {
		initialized = false
		dataFS = nil
	})
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	reset(t)
	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}
	Init(testFS())
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

// TestNotInitialized 未初始化时所有访问函数都返回 ErrNotInitialized
func TestNotInitialized(t *testing.T) {
	reset(t)

	calls := map[string]func() error{
		"Open":     func() error { _, err := Open("data/game.yaml"); return err },
		"ReadFile": func() error { _, err := ReadFile("data/game.yaml"); return err },
		"Glob":     func() error { _, err := Glob("data/*.yaml"); return err },
		"ReadDir":  func() error { _, err := ReadDir("data"); return err },
		"Sub":      func() error { _, err := Sub("data/problems"); return err },
		"FS":       func() error { _, err := FS(); return err },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("%s: got %v, want ErrNotInitialized", name, err)
		}
	}
	if Exists("data/game.yaml") {
		t.Error("Exists should be false before Init()")
	}
}

// TestInvalidPrefix 只允许访问 data/ 下的文件
func TestInvalidPrefix(t *testing.T) {
	reset(t)
	Init(testFS())

	if _, err := ReadFile("assets/images/logo.png"); err == nil {
		t.Error("Expected error for non-data path")
	}
	if _, err := Glob("problems/*.yaml"); err == nil {
		t.Error("Expected error for pattern without data/ prefix")
	}
}

// TestPathNormalization 测试路径标准化
func TestPathNormalization(t *testing.T) {
	reset(t)
	Init(testFS())

	for _, path := range []string{"data/game.yaml", "./data/game.yaml"} {
		data, err := ReadFile(path)
		if err != nil {
			t.Errorf("ReadFile(%q): %v", path, err)
			continue
		}
		if string(data) != "groundY: 900\n" {
			t.Errorf("ReadFile(%q) = %q", path, data)
		}
	}
	if !Exists("./data/solutions/two_sum.js") {
		t.Error("Exists should normalize ./ prefix")
	}
}

func TestGlobAndReadDir(t *testing.T) {
	reset(t)
	Init(testFS())

	matches, err := Glob("data/problems/*.yaml")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Glob matched %v, want 2 files", matches)
	}

	entries, err := ReadDir("data")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("ReadDir(data) = %d entries, want 3", len(entries))
	}
}

func TestSub(t *testing.T) {
	reset(t)
	Init(testFS())

	sub, err := Sub("data/problems")
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if _, err := fs.ReadFile(sub, "two_sum.yaml"); err != nil {
		t.Errorf("ReadFile in sub FS: %v", err)
	}
}
