package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/githubz0r/ss-pred/internal/parser"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readChains(t *testing.T, content string) []parser.Chain {
	t.Helper()
	chains, err := parser.ReadAnnotations(writeFile(t, "ref.fasta", content))
	if err != nil {
		t.Fatalf("ReadAnnotations: %v", err)
	}
	return chains
}

func TestLoadPairs_Fasta(t *testing.T) {
	refs := readChains(t, ">a\nHHHH\n>b\nEEEE\n")
	predPath := writeFile(t, "pred.fasta", ">b\nEE--\n>a\nHH--\n")

	pairs, err := loadPairs(refs, predPath, "fasta")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].ID != "a" || pairs[0].Pred.String() != "HH--" {
		t.Errorf("Unexpected first pair: %s %s", pairs[0].ID, pairs[0].Pred.String())
	}
}

func TestLoadPairs_Horizontal(t *testing.T) {
	refs := readChains(t, ">a\nHHHH--\n")
	predPath := writeFile(t, "pred.horiz", "Conf: 998877\nPred: HHHHCC\n")

	pairs, err := loadPairs(refs, predPath, "horiz")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Pred.String() != "HHHH--" {
		t.Errorf("Expected HHHH--, got %s", pairs[0].Pred.String())
	}
}

func TestLoadPairs_HorizontalNeedsSingleChain(t *testing.T) {
	refs := readChains(t, ">a\nHHHH\n>b\nEEEE\n")
	predPath := writeFile(t, "pred.horiz", "Pred: HHHH\n")

	if _, err := loadPairs(refs, predPath, "horiz"); err == nil {
		t.Fatal("Expected error for multi-chain reference with horizontal format")
	}
}

func TestLoadPairs_MissingPrediction(t *testing.T) {
	refs := readChains(t, ">a\nHHHH\n>b\nEEEE\n")
	predPath := writeFile(t, "pred.fasta", ">a\nHHHH\n")

	if _, err := loadPairs(refs, predPath, "fasta"); err == nil {
		t.Fatal("Expected error for missing prediction chain")
	}
}
