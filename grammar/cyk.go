package grammar

// Recognizes reports whether the grammar generates input, using the CYK
// dynamic-programming algorithm.
//
// The table T[length-1][start] holds, as a bitset over interned nonterminal
// ids, the set of nonterminals deriving input[start : start+length]. The base
// row comes from the terminal-rule index; each longer row is filled by
// combining the two sub-spans at every split point through the pair rules.
// The answer is whether the start symbol derives the whole input.
//
// Recognizes("") is false for every CNF grammar: the normal form admits no
// empty production body, so no grammar under this model derives the empty
// string. This is a modeling restriction, decided here rather than left to
// fall out of table indexing.
//
// O(n³ · |pair rules|) time and O(n² · |nonterminals|) space, with the table
// allocated fresh per call and discarded; the grammar itself is never
// mutated.
func (g *CNF) Recognizes(input string) bool {
	runes := []rune(input)
	n := len(runes)
	if n == 0 {
		return false
	}

	nn := len(g.nonterminals)
	table := make([][][]bool, n)
	for l := range table {
		table[l] = make([][]bool, n-l)
		for s := range table[l] {
			table[l][s] = make([]bool, nn)
		}
	}

	// Base row: spans of length 1 through A -> a rules.
	for i, r := range runes {
		for _, a := range g.termRules[r] {
			table[0][i][a] = true
		}
	}

	// Inductive rows: spans of length 2..n through A -> B C rules.
	for length := 2; length <= n; length++ {
		for start := 0; start+length <= n; start++ {
			cell := table[length-1][start]
			for split := 1; split < length; split++ {
				left := table[split-1][start]
				right := table[length-split-1][start+split]
				for _, pr := range g.pairRules {
					if left[pr.b] && right[pr.c] {
						cell[pr.a] = true
					}
				}
			}
		}
	}

	return table[n-1][0][g.startID]
}
