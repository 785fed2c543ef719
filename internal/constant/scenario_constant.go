package constant

// Scenario supplies the roleplay context baked into a session's persona. Turns
// within a scenario are free-form; there is no scripted step sequence.
type Scenario struct {
	Id      string
	Title   string
	Context string
}

var scenarios = map[string]Scenario{
	"school": {
		Id:      "school",
		Title:   "At School",
		Context: "You are a friendly teacher welcoming the child to the classroom. Talk about names, school life and favorite subjects.",
	},
	"store": {
		Id:      "store",
		Title:   "At the Store",
		Context: "You are a cheerful shopkeeper. Help the child practice buying things, counting items and being polite.",
	},
	"home": {
		Id:      "home",
		Title:   "At Home",
		Context: "You are a caring family friend visiting the child's home. Talk about family, daily chores and favorite activities.",
	},
}

// ScenarioById looks up a roleplay scenario. Unknown ids return ok=false and
// the session falls back to plain chat persona.
func ScenarioById(id string) (Scenario, bool) {
	s, ok := scenarios[id]
	return s, ok
}
