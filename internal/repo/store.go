package repo

import "github.com/pkordes/wanderly/internal/kv"

// Store aggregates every repo over one backend. It is constructed once by
// the composition root (cmd/api, cmd/wanderly) and handed to the services.
type Store struct {
	Users       UserRepo
	Credentials CredentialRepo
	Session     SessionRepo
	Trips       TripRepo
	Members     MemberRepo
	Activities  ActivityRepo
	Votes       VoteRepo
	Messages    MessageRepo
}

// NewStore builds all repos over b.
func NewStore(b kv.Backend, opts Options) *Store {
	opts = opts.withDefaults()
	return &Store{
		Users:       NewUserRepo(b, opts),
		Credentials: NewCredentialRepo(b, opts),
		Session:     NewSessionRepo(b, opts),
		Trips:       NewTripRepo(b, opts),
		Members:     NewMemberRepo(b, opts),
		Activities:  NewActivityRepo(b, opts),
		Votes:       NewVoteRepo(b, opts),
		Messages:    NewMessageRepo(b, opts),
	}
}
