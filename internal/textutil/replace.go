// Package textutil holds the text rewriting primitives shared by the
// perturbation rules. All replacement is bounded by word boundaries so a
// target never matches inside a longer word ("Ann" is left alone in "Anna").
package textutil

import (
	"github.com/dlclark/regexp2"
)

// WordPattern compiles a pattern matching target as a whole word.
// Boundaries follow Unicode word characters (letters, digits, marks and
// connector punctuation such as '_').
func WordPattern(target string) *regexp2.Regexp {
	return regexp2.MustCompile(`\b`+regexp2.Escape(target)+`\b`, regexp2.None)
}

// ReplaceWord replaces every whole-word occurrence of target in text with
// repl. The replacement is inserted literally.
func ReplaceWord(text, target, repl string) string {
	if target == "" {
		return text
	}
	return ReplaceAll(WordPattern(target), text, repl)
}

// ReplaceAll applies a compiled pattern to text, inserting repl literally
// for every match. On a matcher failure the text is returned unchanged.
func ReplaceAll(re *regexp2.Regexp, text, repl string) string {
	out, err := re.ReplaceFunc(text, func(regexp2.Match) string { return repl }, -1, -1)
	if err != nil {
		return text
	}
	return out
}

// ContainsWord reports whether target occurs in text as a whole word.
func ContainsWord(text, target string) bool {
	if target == "" {
		return false
	}
	ok, err := WordPattern(target).MatchString(text)
	return err == nil && ok
}

// KeepFirst returns repl with its first rune replaced by the first rune of
// match, so a capitalised match yields a capitalised replacement.
func KeepFirst(match, repl string) string {
	m := []rune(match)
	r := []rune(repl)
	if len(m) == 0 || len(r) == 0 {
		return repl
	}
	r[0] = m[0]
	return string(r)
}
