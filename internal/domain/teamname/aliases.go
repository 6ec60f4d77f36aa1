package teamname

// exactAliases runs right after punctuation cleanup and wins over every
// later rule. Keys are already lowercased, accent-free, "&"->"and",
// hyphens spaced, dots and apostrophes stripped. A hit returns immediately,
// so entries here can pin names the suffix rules would otherwise mangle.
var exactAliases = map[string]string{
	"uconn": "connecticut",
	"fau":   "florida atlantic",
	"fiu":   "florida international",
	"etsu":  "east tennessee state",
	"vmi":   "vmi",
	"uab":   "uab",

	"jax state":     "jacksonville state",
	"purdue fw":     "purdue fort wayne",
	"charleston so": "charleston southern",
	"s illinois":    "southern illinois",

	// directional short forms
	"w michigan":   "western michigan",
	"e michigan":   "eastern michigan",
	"c michigan":   "central michigan",
	"g washington": "george washington",
	"n illinois":   "northern illinois",

	// explicit State schools
	"san jose st":   "san jose state",
	"youngstown st": "youngstown state",

	// nicknames / common names
	"ole miss": "mississippi",

	// St Thomas variants
	"st thomas (mn)": "st thomas",
	"st thomas mn":   "st thomas",

	// schedule feed quirks
	"uic":      "illinois chicago",
	"boston u": "boston university",
	"miami":    "miami fl",

	"ar pine bluff":            "arkansas pine bluff",
	"prairie view":             "prairie view aandm",
	"prairie view aandm":       "prairie view aandm",
	"se louisiana":             "southeastern louisiana",
	"ut rio grande":            "ut rio grande valley",
	"sf austin":                "stephen f austin",
	"miss valley st":           "mississippi valley state",
	"hou christian":            "houston christian",
	"texas aandm cc":           "texas aandm corpus christi",
	"texas aandm corpus chris": "texas aandm corpus christi",

	"grambling":           "grambling state",
	"nwestern state":      "northwestern state",
	"eastern texas aandm": "east texas aandm",
	"pitt":                "pittsburgh",
	"ualbany":             "albany",
	"ga southern":         "georgia southern",
	"sc state":            "south carolina state",
	"nc central":          "north carolina central",
	"md eastern":          "maryland eastern shore",
	"sc upstate":          "usc upstate",
}

// prefixExpansions expand abbreviations at the start of a name. Order
// matters and only the first match applies.
var prefixExpansions = []struct {
	short string
	full  string
}{
	{"w ", "western "},
	{"e ", "eastern "},
	{"c ", "central "},
	{"g ", "george "},
	{"n ", "northern "},
	{"umass", "massachusetts"},
}

// postAliases runs last, after the prefix and suffix rules have rewritten
// the name. Identity entries pin canonical spellings so a second pass through
// Normalize cannot drift.
var postAliases = map[string]string{
	"fdu":                   "fairleigh dickinson",
	"fgcu":                  "florida gulf coast",
	"app state":             "appalachian state",
	"coastal":               "coastal carolina",
	"nc aandt":              "north carolina aandt",
	"long island":           "liu",
	"ut martin":             "tennessee martin",
	"sam houston":           "sam houston state",
	"s dakota state":        "south dakota state",
	"northern dakota state": "north dakota state",
	"omaha":                 "nebraska omaha",
	"ul monroe":             "louisiana monroe",
	"mtsu":                  "middle tennessee",

	"santa barbara":            "uc santa barbara",
	"abilene chrstn":           "abilene christian",
	"se missouri":              "southeast missouri",
	"so indiana":               "southern indiana",
	"bakersfield":              "cal st bakersfield",
	"csu northridge":           "csun",
	"ca baptist":               "cal baptist",
	"fullerton":                "cal st fullerton",
	"southeast missouri state": "southeast missouri",
	"western ky":               "western kentucky",
	"seattle university":       "seattle",
	"lmu":                      "loyola marymount",

	"arkansas pine bluff":        "arkansas pine bluff",
	"southeastern louisiana":     "southeastern louisiana",
	"ut rio grande valley":       "ut rio grande valley",
	"stephen f austin":           "stephen f austin",
	"mississippi valley state":   "mississippi valley state",
	"houston christian":          "houston christian",
	"texas aandm corpus christi": "texas aandm corpus christi",

	"nwestern state":      "northwestern state",
	"eastern texas aandm": "east texas aandm",
	"bethune":             "bethune cookman",
}
