// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package locale

// countryKeywords maps explicit country/region mentions in the question to a
// canonical country label. An explicit mention always outranks whatever
// country the classifiers guessed. Entries are in folded form.
var countryKeywords = map[string][]string{
	"usa":         {"etats unis", "etats-unis", "usa", "amerique", "americain", "new york", "californie"},
	"uk":          {"royaume uni", "royaume-uni", "angleterre", "grande bretagne", "londres", "anglais"},
	"canada":      {"canada", "quebec", "montreal", "canadien"},
	"switzerland": {"suisse", "geneve", "lausanne", "zurich"},
	"belgium":     {"belgique", "bruxelles", "belge"},
	"spain":       {"espagne", "madrid", "barcelone", "espagnol"},
	"germany":     {"allemagne", "berlin", "allemand"},
	"turkey":      {"turquie", "istanbul", "turc"},
	"italy":       {"italie", "rome", "milan", "italien"},
	"maghreb":     {"maroc", "algerie", "tunisie", "casablanca", "alger", "tunis"},
}

// countryLocales maps a resolved country label to its search locale.
// Unrecognized non-France countries fall back to the French locale: a
// deliberate default, the caller is a French-speaking audience.
var countryLocales = map[string]Locale{
	"france":      {Language: "fr", InterfaceLang: "fr", GeoCode: "fr", TargetCountry: "france"},
	"usa":         {Language: "en", InterfaceLang: "en", GeoCode: "us", TargetCountry: "usa"},
	"uk":          {Language: "en", InterfaceLang: "en", GeoCode: "gb", TargetCountry: "uk"},
	"canada":      {Language: "fr", InterfaceLang: "fr", GeoCode: "ca", TargetCountry: "canada"},
	"switzerland": {Language: "fr", InterfaceLang: "fr", GeoCode: "ch", TargetCountry: "switzerland"},
	"belgium":     {Language: "fr", InterfaceLang: "fr", GeoCode: "be", TargetCountry: "belgium"},
	"spain":       {Language: "es", InterfaceLang: "es", GeoCode: "es", TargetCountry: "spain"},
	"germany":     {Language: "de", InterfaceLang: "de", GeoCode: "de", TargetCountry: "germany"},
	"turkey":      {Language: "tr", InterfaceLang: "tr", GeoCode: "tr", TargetCountry: "turkey"},
	"italy":       {Language: "it", InterfaceLang: "it", GeoCode: "it", TargetCountry: "italy"},
	"maghreb":     {Language: "fr", InterfaceLang: "fr", GeoCode: "ma", TargetCountry: "maghreb"},
}

// frenchLeagues are domestic league/team mentions that force the French
// locale regardless of any upstream country guess.
var frenchLeagues = []string{
	"ligue 1", "ligue 2", "top 14", "pro d2", "psg", "paris saint germain",
	"olympique de marseille", "olympique lyonnais", "as monaco", "losc",
	"stade rennais", "rc lens", "fc nantes", "equipe de france", "les bleus",
	"roland garros", "tour de france", "coupe de france",
}

// globalLeagues are global leagues and combat-sports organizations that
// force the English/US locale.
var globalLeagues = []string{
	"premier league", "liga", "bundesliga", "serie a", "champions league",
	"ligue des champions", "europa league", "nba", "nfl", "nhl", "mlb",
	"ufc", "bellator", "wwe", "formule 1", "formula 1", "moto gp",
	"super bowl", "wimbledon", "us open",
}

// globalDomains are classifier domains whose answers live mostly on the
// English-language web. Without an explicit "france" in the question, these
// bias the locale to en/US.
var globalDomains = map[string]struct{}{
	"tech":            {},
	"finance":         {},
	"culture":         {},
	"current_affairs": {},
}
