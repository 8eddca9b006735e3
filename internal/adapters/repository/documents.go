package repository

import "github.com/okian/talentportal/internal/domain/model"

// Document type discriminators shared by the document-database backends.
const (
	TypeUserProfile = "userProfile"
	TypePersona     = "persona"
	TypeTeamMember  = "teamMember"
)

// docID builds the storage key of an entity. Entity ids are only unique per
// type, so the discriminator is part of the key.
func docID(docType, id string) string {
	return docType + ":" + id
}

type profileDoc struct {
	DocID             string `bson:"_id"`
	Type              string `bson:"type"`
	model.UserProfile `bson:",inline"`
}

type personaDoc struct {
	DocID         string `bson:"_id"`
	Type          string `bson:"type"`
	model.Persona `bson:",inline"`
}

type teamDoc struct {
	DocID                   string `bson:"_id"`
	Type                    string `bson:"type"`
	model.TeamMemberSummary `bson:",inline"`
}

// seedDocuments flattens a seed into typed documents.
func seedDocuments(s settings) []any {
	seed := s.seed
	docs := make([]any, 0, 1+len(seed.Personas)+len(seed.Team))
	if seed.Profile.ID != "" {
		docs = append(docs, profileDoc{docID(TypeUserProfile, seed.Profile.ID), TypeUserProfile, seed.Profile})
	}
	for _, p := range seed.Personas {
		docs = append(docs, personaDoc{docID(TypePersona, p.ID), TypePersona, p})
	}
	for _, m := range seed.Team {
		if m.Feedbacks == nil {
			m.Feedbacks = []model.ClientFeedback{}
		}
		docs = append(docs, teamDoc{docID(TypeTeamMember, m.ID), TypeTeamMember, m})
	}
	return docs
}
