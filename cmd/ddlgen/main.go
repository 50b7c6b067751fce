package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HsiaoHungKai/myDonut/internal/infra/database"
)

func mustWrite(path string, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		panic(err)
	}
}

func main() {
	outDir := flag.String("out", filepath.Join("internal", "infra", "database", "migrations"), "output directory")
	flag.Parse()

	// 外部キー順に連番を付ける
	for i, t := range database.Tables() {
		path := filepath.Join(*outDir, fmt.Sprintf("%03d_init_%s.sql", i+1, t.Name))
		mustWrite(path, strings.TrimSpace(t.DDL)+"\n")
		fmt.Println("wrote", path)
	}
}
