// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package score

// Result-text cue tables. The question side reuses the classify package's
// detectors where one exists; these lists describe what a search RESULT
// looks like when it is about the topic, which is not always the same
// vocabulary a user types.

var priceCues = []string{
	"€", "eur", "euro", "euros", "$", "prix", "tarif", "abonnement",
	"mensuel", "annuel", "par mois", "/mois", "per month", "subscription",
	"price", "pricing", "cost",
}

var personRoleCues = []string{
	"president", "premier ministre", "ministre", "pdg", "ceo", "roi",
	"reine", "maire", "chancelier", "pape", "elu", "nomme", "elected",
	"appointed",
}

var sportsCues = []string{
	"match", "score", "victoire", "defaite", "championnat", "ligue",
	"league", "tournoi", "combat", "ufc", "knockout", "buts", "goals",
	"classement", "saison", "season", "transfert", "mercato",
}

var politicsCues = []string{
	"election", "vote", "assemblee", "senat", "parlement", "gouvernement",
	"loi", "decret", "reforme", "motion", "scrutin", "parliament",
	"congress", "senate", "bill",
}

var realEstateCues = []string{
	"immobilier", "appartement", "maison", "loyer", "m2", "notaire",
	"location", "achat immobilier", "real estate", "mortgage", "property",
	"estimation",
}

var entertainmentCues = []string{
	"serie", "series", "episode", "saison inedite", "film", "bande annonce",
	"trailer", "casting", "streaming gratuit", "netflix original",
	"acteur", "actrice", "box office", "album", "clip", "concert",
}

// trustedDomains is the allowlist of authoritative domains rewarded with a
// flat bonus: encyclopedias, official portals, legal-text portals and major
// brand/e-commerce domains the summarizer can safely cite.
var trustedDomains = []string{
	"wikipedia.org", "service-public.fr", "legifrance.gouv.fr", "gouv.fr",
	"insee.fr", "lemonde.fr", "lequipe.fr", "lefigaro.fr", "netflix.com",
	"amazon.fr", "amazon.com", "spotify.com", "disneyplus.com",
	"canalplus.com", "apple.com", "fnac.com", "boursorama.com", "ufc.com",
}
