package doc_sync

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func BenchmarkHashContent(b *testing.B) {
	sizes := []int{256, 4 * 1024, 64 * 1024, 1024 * 1024}
	for _, size := range sizes {
		content := make([]byte, size)
		rand.Read(content)
		b.Run(fmt.Sprintf("%dB", size), func(b *testing.B) {
			b.SetBytes(int64(size))
			for i := 0; i < b.N; i++ {
				_ = HashContent(content)
			}
		})
	}
}

// benchmarkProject lays out a tree of markdown files with one consumer block
// each plus a single shared template.
func benchmarkProject(b *testing.B, files int) string {
	b.Helper()
	root := b.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "templates"), 0755); err != nil {
		b.Fatal(err)
	}
	template := "<!-- {@shared} -->\nshared body\n<!-- {/shared} -->\n"
	if err := os.WriteFile(filepath.Join(root, "templates", "blocks.md"), []byte(template), 0644); err != nil {
		b.Fatal(err)
	}
	body := strings.Repeat("filler paragraph line\n", 50)
	for i := 0; i < files; i++ {
		content := body + "<!-- {=shared} -->\nshared body\n<!-- {/shared} -->\n" + body
		name := filepath.Join(root, fmt.Sprintf("doc_%03d.md", i))
		if err := os.WriteFile(name, []byte(content), 0644); err != nil {
			b.Fatal(err)
		}
	}
	return root
}

func BenchmarkScan_Cold(b *testing.B) {
	root := benchmarkProject(b, 200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a := NewDocAnalyzer(root, ScanOptions{
			IsProviderFile: func(rel string) bool { return strings.HasPrefix(rel, "templates/") },
		})
		if _, err := a.Scan(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScan_Warm(b *testing.B) {
	root := benchmarkProject(b, 200)
	opts := ScanOptions{
		IsProviderFile: func(rel string) bool { return strings.HasPrefix(rel, "templates/") },
		ProjectKey:     "bench",
		EnableCache:    true,
	}
	// Prime the cache once so every timed iteration hits it.
	if _, err := NewDocAnalyzer(root, opts).Scan(); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a := NewDocAnalyzer(root, opts)
		if _, err := a.Scan(); err != nil {
			b.Fatal(err)
		}
		if !a.Telemetry().FullProjectHit {
			b.Fatal("expected a full cache hit")
		}
	}
}
