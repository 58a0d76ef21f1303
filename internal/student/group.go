package student

// Group is the classification a student belongs to.
//
// Groups are persisted by canonical name. The declaration order below carries
// no meaning and may change freely.
type Group string

const (
	GroupLotus Group = "LOTUS"
	GroupRose  Group = "ROSE"
	GroupDaisy Group = "DAISY"
)

// groupNames is the canonical name table. The mapper reads and writes group
// values only through it.
var groupNames = map[Group]string{
	GroupLotus: "LOTUS",
	GroupRose:  "ROSE",
	GroupDaisy: "DAISY",
}

var groupsByName = func() map[string]Group {
	m := make(map[string]Group, len(groupNames))
	for g, name := range groupNames {
		m[name] = g
	}
	return m
}()

// Groups returns every member of the closed set, sorted by name.
func Groups() []Group {
	return []Group{GroupDaisy, GroupLotus, GroupRose}
}

// Name returns the canonical name of g and whether g is a known group.
func (g Group) Name() (string, bool) {
	name, ok := groupNames[g]
	return name, ok
}

// Valid reports whether g is a member of the closed set.
func (g Group) Valid() bool {
	_, ok := groupNames[g]
	return ok
}

// ParseGroup looks up a group by its canonical name.
func ParseGroup(name string) (Group, bool) {
	g, ok := groupsByName[name]
	return g, ok
}
