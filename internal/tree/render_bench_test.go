package tree

import (
	"math/rand"
	"testing"

	"github.com/mcncl/jsonfmt/internal/models"
)

func benchValue() models.Value {
	return randomValue(rand.New(rand.NewSource(42)), 8)
}

func BenchmarkRender(b *testing.B) {
	v := benchValue()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Render(v)
	}
}

func BenchmarkCollapseExpandAll(b *testing.B) {
	root := Render(benchValue())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CollapseAll(root)
		ExpandAll(root)
	}
}

func BenchmarkRows(b *testing.B) {
	root := Render(benchValue())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Rows(root)
	}
}
