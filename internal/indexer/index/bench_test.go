package index

import (
	"fmt"
	"strings"
	"testing"
)

// BenchmarkInsertLast measures relocating a new tail occurrence into sorted
// lists of increasing length.
func BenchmarkInsertLast(b *testing.B) {
	for _, n := range []int{10, 1000, 100000} {
		b.Run(fmt.Sprintf("len_%d", n), func(b *testing.B) {
			base := make(PostingList, n)
			for i := range base {
				base[i] = Occurrence{DocID: fmt.Sprintf("doc-%d", i), Frequency: n - i}
			}
			list := make(PostingList, n+1)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				copy(list, base)
				list[n] = Occurrence{DocID: "new", Frequency: n / 2}
				InsertLast(list)
			}
		})
	}
}

// BenchmarkMemoryIndexMerge measures per-document merge throughput.
func BenchmarkMemoryIndexMerge(b *testing.B) {
	tokens := strings.Fields("this is a benchmark document with several terms for testing the indexing performance of our memory index")
	mi := NewMemoryIndex()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		docID := fmt.Sprintf("doc-%d", i)
		if _, err := mi.Merge(docID, LoadKeywords(tokens, docID, nil)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkMemoryIndexPostingsParallel measures concurrent read throughput
// of a sealed index.
func BenchmarkMemoryIndexPostingsParallel(b *testing.B) {
	tokens := strings.Fields("search engine with distributed indexing and query processing")
	mi := NewMemoryIndex()
	for i := 0; i < 10000; i++ {
		docID := fmt.Sprintf("doc-%d", i)
		if _, err := mi.Merge(docID, LoadKeywords(tokens, docID, nil)); err != nil {
			b.Fatal(err)
		}
	}
	mi.Seal()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mi.Postings("search")
		}
	})
}
