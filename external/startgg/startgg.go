package startgg

// GraphQL documents sent to the start.gg gateway. Variables are passed
// separately so the documents stay constant and cacheable upstream.
const (
	playerProfileDoc = `query PlayerProfile($playerId: ID!) {
  player(id: $playerId) {
    id
    gamerTag
    prefix
    user {
      genderPronoun
      location { country }
      images(type: "profile") { url type }
      authorizations(types: [TWITTER]) { externalUsername }
    }
  }
}`

	eventHistoryDoc = `query EventHistory($playerId: ID!, $page: Int!, $perPage: Int!, $videogameId: [ID]) {
  player(id: $playerId) {
    user {
      events(query: {
        page: $page
        perPage: $perPage
        filter: { videogameId: $videogameId }
      }) {
        pageInfo { totalPages }
        nodes { id startAt }
      }
    }
  }
}`

	eventDetailDoc = `query EventDetail($eventId: ID!, $playerId: [ID]!, $setsPerPage: Int!) {
  event(id: $eventId) {
    id
    phaseGroups { bracketType }
    tournament {
      name
      city
      startAt
      numAttendees
      images { url type }
    }
    entrants(query: { filter: { playerIds: $playerId } }) {
      nodes {
        id
        initialSeedNum
        standing { placement }
      }
    }
    sets(filters: { playerIds: $playerId }, perPage: $setsPerPage, sortType: CALL_ORDER) {
      nodes {
        winnerId
        displayScore
        fullRoundText
        games {
          winnerId
          selections {
            entrant { id name checkInSeed { seedNum } }
            character { name }
          }
        }
      }
    }
  }
}`

	entrantProfileDoc = `query EntrantProfile($entrantId: ID!) {
  entrant(id: $entrantId) {
    name
    participants {
      player {
        gamerTag
        prefix
        user {
          images(type: "profile") { url type }
        }
      }
    }
  }
}`

	searchPlayersDoc = `query SearchPlayers($gamerTag: String!, $perPage: Int!) {
  players(query: { filter: { gamerTag: $gamerTag }, perPage: $perPage }) {
    nodes {
      id
      gamerTag
      prefix
      user {
        location { country }
        images(type: "profile") { url type }
        events(query: { perPage: 1 }) {
          pageInfo { total }
        }
      }
    }
  }
}`
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type imageNode struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type locationNode struct {
	Country string `json:"country"`
}

type authorizationNode struct {
	ExternalUsername string `json:"externalUsername"`
}

type pageInfoNode struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type eventStubNode struct {
	ID      int64 `json:"id"`
	StartAt int64 `json:"startAt"`
}

type eventConnection struct {
	PageInfo pageInfoNode    `json:"pageInfo"`
	Nodes    []eventStubNode `json:"nodes"`
}

type userNode struct {
	GenderPronoun  string              `json:"genderPronoun"`
	Location       *locationNode       `json:"location"`
	Images         []imageNode         `json:"images"`
	Authorizations []authorizationNode `json:"authorizations"`
	Events         *eventConnection    `json:"events"`
}

type playerNode struct {
	ID       int64     `json:"id"`
	GamerTag string    `json:"gamerTag"`
	Prefix   string    `json:"prefix"`
	User     *userNode `json:"user"`
}

type playerProfilePayload struct {
	Player *playerNode `json:"player"`
}

type eventHistoryPayload struct {
	Player *struct {
		User *struct {
			Events *eventConnection `json:"events"`
		} `json:"user"`
	} `json:"player"`
}

type phaseGroupNode struct {
	BracketType string `json:"bracketType"`
}

type tournamentNode struct {
	Name         string      `json:"name"`
	City         string      `json:"city"`
	StartAt      int64       `json:"startAt"`
	NumAttendees int         `json:"numAttendees"`
	Images       []imageNode `json:"images"`
}

type standingNode struct {
	Placement int `json:"placement"`
}

type entrantNode struct {
	ID             int64         `json:"id"`
	InitialSeedNum int           `json:"initialSeedNum"`
	Standing       *standingNode `json:"standing"`
}

type checkInSeedNode struct {
	SeedNum int `json:"seedNum"`
}

type selectionEntrantNode struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	CheckInSeed *checkInSeedNode `json:"checkInSeed"`
}

type characterNode struct {
	Name string `json:"name"`
}

type selectionNode struct {
	Entrant   *selectionEntrantNode `json:"entrant"`
	Character *characterNode        `json:"character"`
}

type gameNode struct {
	WinnerID   int64           `json:"winnerId"`
	Selections []selectionNode `json:"selections"`
}

type setNode struct {
	WinnerID      *int64     `json:"winnerId"`
	DisplayScore  *string    `json:"displayScore"`
	FullRoundText string     `json:"fullRoundText"`
	Games         []gameNode `json:"games"`
}

type eventNode struct {
	ID          int64            `json:"id"`
	PhaseGroups []phaseGroupNode `json:"phaseGroups"`
	Tournament  *tournamentNode  `json:"tournament"`
	Entrants    *struct {
		Nodes []entrantNode `json:"nodes"`
	} `json:"entrants"`
	Sets *struct {
		Nodes []setNode `json:"nodes"`
	} `json:"sets"`
}

type eventDetailPayload struct {
	Event *eventNode `json:"event"`
}

type participantNode struct {
	Player *playerNode `json:"player"`
}

type entrantProfilePayload struct {
	Entrant *struct {
		Name         string            `json:"name"`
		Participants []participantNode `json:"participants"`
	} `json:"entrant"`
}

type searchPlayersPayload struct {
	Players *struct {
		Nodes []playerNode `json:"nodes"`
	} `json:"players"`
}
