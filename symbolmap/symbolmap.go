// Package symbolmap parses System.map and kallsyms text files: lines
// of the form "<hex address> <type char> <name> [module]".
package symbolmap

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/frobware/btf2json/domain"
)

// keptTypeChars are the type characters kept as symbols; every other
// character (weak aliases already folded in, debugging symbols,
// section markers not in this set) is skipped. Lowercase denotes a
// local binding, uppercase global — both are kept, the case itself
// carries no meaning for ISF beyond function vs. object.
var keptTypeChars = map[byte]domain.SymbolKind{
	't': domain.SymbolFunction, 'T': domain.SymbolFunction,
	'd': domain.SymbolObject, 'D': domain.SymbolObject,
	'b': domain.SymbolObject, 'B': domain.SymbolObject,
	'r': domain.SymbolObject, 'R': domain.SymbolObject,
	'a': domain.SymbolObject, 'A': domain.SymbolObject,
	'w': domain.SymbolObject, 'W': domain.SymbolObject,
	'v': domain.SymbolObject, 'V': domain.SymbolObject,
}

// Parse reads a System.map/kallsyms stream and returns its entries in
// file order, keeping the first occurrence of each name and skipping
// blank or unparseable lines. Fails only if zero symbols were kept.
// path is used only to name the file in ErrNoSymbols.
func Parse(path string, r io.Reader) ([]domain.MapEntry, error) {
	entries, _ := parse(r)
	if len(entries) == 0 {
		return nil, ErrNoSymbols{Path: path}
	}
	return entries, nil
}

func parse(r io.Reader) ([]domain.MapEntry, int) {
	seen := make(map[string]bool)
	var entries []domain.MapEntry
	skipped := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			skipped++
			continue
		}

		addr, err := strconv.ParseUint(fields[0], 16, 64)
		if err != nil {
			skipped++
			continue
		}

		typeChar := fields[1]
		if len(typeChar) != 1 {
			skipped++
			continue
		}
		kind, ok := keptTypeChars[typeChar[0]]
		if !ok {
			continue
		}

		name := fields[2]
		if seen[name] {
			continue
		}
		seen[name] = true

		entries = append(entries, domain.MapEntry{Name: name, Address: addr, Kind: kind})
	}

	return entries, skipped
}
