package render

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// scopeStylesheet rewrites the text of one panel's <style> element so its
// rules only reach that panel: every selector gains a leading ".scope"
// descendant combinator, #id selectors and url(#id) references gain the id
// prefix. Comments are dropped and whitespace is normalized.
func scopeStylesheet(text, idPrefix, scope string) string {
	p := css.NewParser(parse.NewInputString(text), false)

	var b strings.Builder
	var atRules []string
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if !p.HasParseError() {
				return b.String()
			}
		case css.AtRuleGrammar:
			b.Write(data)
			writeAtRuleValues(&b, p.Values(), idPrefix)
			b.WriteByte(';')
		case css.BeginAtRuleGrammar:
			atRules = append(atRules, string(data))
			b.Write(data)
			writeAtRuleValues(&b, p.Values(), idPrefix)
			b.WriteByte('{')
		case css.EndAtRuleGrammar:
			if len(atRules) > 0 {
				atRules = atRules[:len(atRules)-1]
			}
			b.WriteByte('}')
		case css.BeginRulesetGrammar:
			if inKeyframes(atRules) {
				b.WriteString(joinTokens(p.Values()))
			} else {
				b.WriteString(scopeSelectors(p.Values(), idPrefix, scope))
			}
			b.WriteByte('{')
		case css.EndRulesetGrammar:
			b.WriteByte('}')
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			b.Write(data)
			b.WriteByte(':')
			b.WriteString(prefixURLRefs(joinTokens(p.Values()), idPrefix))
			b.WriteByte(';')
		case css.TokenGrammar:
			b.Write(data)
		}
	}
}

// scopeSelectors rewrites a comma-separated selector list.
func scopeSelectors(tokens []css.Token, idPrefix, scope string) string {
	var groups []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if sel := strings.TrimSpace(cur.String()); sel != "" {
			groups = append(groups, "."+scope+" "+sel)
		}
		cur.Reset()
	}
	for _, t := range tokens {
		switch t.TokenType {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				flush()
				continue
			}
		case css.HashToken:
			cur.WriteString("#" + idPrefix + string(t.Data[1:]))
			continue
		}
		cur.Write(t.Data)
	}
	flush()
	return strings.Join(groups, ",")
}

func writeAtRuleValues(b *strings.Builder, tokens []css.Token, idPrefix string) {
	if v := strings.TrimSpace(joinTokens(tokens)); v != "" {
		b.WriteByte(' ')
		b.WriteString(prefixURLRefs(v, idPrefix))
	}
}

func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return b.String()
}

func inKeyframes(atRules []string) bool {
	for _, r := range atRules {
		if strings.HasSuffix(r, "keyframes") {
			return true
		}
	}
	return false
}
