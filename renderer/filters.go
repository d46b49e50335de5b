package renderer

import (
	"bytes"

	"github.com/etnz/camsfolio"
	md "github.com/nao1215/markdown"
)

// FiltersMarkdown renders the owner and fund selection as check boxes. Funds are
// grouped by family.
func FiltersMarkdown(s *camsfolio.FilterState) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Owners")
	var owners []md.CheckBoxSet
	for _, o := range s.AllOwners() {
		owners = append(owners, md.CheckBoxSet{Checked: s.OwnerSelected(o), Text: o})
	}
	doc.CheckBox(owners)

	doc.H2("Funds")
	for _, g := range s.FundGroups() {
		doc.H3(g.Name)
		var funds []md.CheckBoxSet
		for _, f := range g.Funds {
			funds = append(funds, md.CheckBoxSet{Checked: s.FundSelected(f), Text: f})
		}
		doc.CheckBox(funds)
	}
	return doc.String()
}
