// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package classify

// Vocabulary groups the keyword tables consumed by the topic detectors.
// Each table is a named, independently testable word list; detectors match
// against normalized (lowercased, diacritic-free) text, so entries must be
// written in normalized form as well.
type Vocabulary struct {
	Price          []string `yaml:"price"`
	Product        []string `yaml:"product"`
	PersonInRole   []string `yaml:"person-in-role"`
	Law            []string `yaml:"law"`
	Recency        []string `yaml:"recency"`
	Government     []string `yaml:"government"`
	CurrentAffairs []string `yaml:"current-affairs"`
	Sports         []string `yaml:"sports"`
	TechGlobal     []string `yaml:"tech-global"`
	WebTriggers    []string `yaml:"web-triggers"`
	Immediacy      []string `yaml:"immediacy"`
	Future         []string `yaml:"future"`
	Greetings      []string `yaml:"greetings"`
}

// DefaultVocabulary returns the built-in keyword tables. Operators may
// override individual tables through a vocabulary YAML file (see Load).
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Price: []string{
			"prix", "coute", "cout", "tarif", "tarifs", "abonnement", "abo",
			"combien", "facture", "mensualite", "euros", "payant", "gratuit",
			"promo", "promotion", "reduction", "souscription",
		},
		Product: []string{
			"netflix", "spotify", "disney", "amazon", "prime", "canal",
			"deezer", "youtube premium", "apple", "iphone", "samsung",
			"playstation", "xbox", "nintendo", "free", "orange", "sfr",
			"bouygues", "uber", "deliveroo", "airbnb", "fnac", "leclerc",
			"carrefour", "ikea", "decathlon", "chatgpt", "tesla",
		},
		PersonInRole: []string{
			"president", "presidente", "premier ministre", "ministre",
			"pdg", "ceo", "roi", "reine", "monarque", "maire", "prefet",
			"chancelier", "pape", "entraineur", "selectionneur", "directeur general",
		},
		Law: []string{
			"loi", "lois", "decret", "reforme", "amendement", "legislation",
			"projet de loi", "proposition de loi", "vote", "votee", "adoptee",
			"promulguee",
		},
		Recency: []string{
			"derniere", "dernier", "recente", "recent", "recemment",
			"nouvelle", "nouveau", "vient de", "actuellement", "en ce moment",
			"aujourd hui", "cette annee", "cette semaine", "ce mois",
		},
		Government: []string{
			"assemblee nationale", "senat", "gouvernement", "parlement",
			"conseil constitutionnel", "elysee", "matignon", "france",
			"francais", "francaise", "etat",
		},
		CurrentAffairs: []string{
			"election", "elections", "guerre", "conflit", "crise", "greve",
			"manifestation", "scrutin", "sondage", "resultat", "resultats",
			"score", "classement", "dernier match", "dernier combat",
			"dernier episode", "derniere saison", "meteo", "temperature",
			"canicule", "tempete", "inflation", "chomage", "croissance",
			"pib", "taux directeur", "smic",
		},
		Sports: []string{
			"match", "matchs", "combat", "boxe", "mma", "ufc", "tournoi",
			"championnat", "coupe", "ligue", "football", "foot", "tennis",
			"rugby", "basket", "cyclisme", "marathon", "victoire", "defaite",
			"affronte", "affrontera", "joue contre", "a joue contre", "face a",
		},
		TechGlobal: []string{
			"intelligence artificielle", "startup", "saas", "api",
			"developpeur", "framework", "open source", "cloud", "crypto",
			"bitcoin", "ethereum", "blockchain", "growth", "marketing digital",
			"seo", "machine learning", "llm",
		},
		WebTriggers: []string{
			"google", "internet", "recherche", "cherche sur", "va voir",
			"sur le web", "en ligne", "verifie", "actualite", "actualites",
			"news", "quoi de neuf", "dernieres infos",
		},
		Immediacy: []string{
			"aujourd hui", "hier", "cette semaine", "ce soir", "ce matin",
			"actuellement", "en ce moment", "maintenant", "a l heure actuelle",
			"recemment", "ces jours ci",
		},
		Future: []string{
			"sera", "seront", "gagnera", "se passera", "prochain", "prochaine",
			"futur", "future", "dans quelques annees", "un jour",
			"prediction", "predire",
		},
		Greetings: []string{
			"salut", "bonjour", "bonsoir", "coucou", "hello", "hey", "yo",
			"ca va", "merci", "bonne nuit", "a plus",
		},
	}
}
