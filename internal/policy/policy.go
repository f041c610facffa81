// Package policy implements per-row access predicates evaluated inside the
// storage layer. Every repository read and write is parameterized by a
// Requester, so authorization cannot be bypassed by calling the repositories
// directly. The same predicates exist as row-level-security policies in the
// SQL migrations for direct database access.
package policy

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Requester is the identity on whose behalf an operation runs. It is an
// opaque identity oracle: the policy layer only compares it against owner
// columns, it never interprets it.
type Requester struct {
	ProfileID     uuid.UUID
	Authenticated bool
}

// Anonymous is the unauthenticated requester.
var Anonymous = Requester{}

// ForProfile returns an authenticated requester for the given profile ID.
func ForProfile(id uuid.UUID) Requester {
	return Requester{ProfileID: id, Authenticated: true}
}

// Owns reports whether the requester owns a row attributed to ownerID.
func (r Requester) Owns(ownerID uuid.UUID) bool {
	return r.Authenticated && r.ProfileID == ownerID
}

// PostReadable scopes a posts query to rows the requester may read:
// public posts, the requester's own posts, and followers-visibility posts of
// profiles the requester follows (accepted).
func PostReadable(r Requester) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !r.Authenticated {
			return db.Where("posts.visibility = ?", "public")
		}
		return db.Where(
			"posts.visibility = ? OR posts.profile_id = ? OR (posts.visibility = ? AND "+followerOfPosts+")",
			"public", r.ProfileID, "followers", r.ProfileID,
		)
	}
}

// ProfileReadable scopes a profiles query to rows the requester may read:
// public profiles, the requester's own profile, and followers-visibility
// profiles the requester follows (accepted). Private profiles are only
// visible to their owner.
func ProfileReadable(r Requester) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !r.Authenticated {
			return db.Where("profiles.visibility = ?", "public")
		}
		return db.Where(
			"profiles.visibility = ? OR profiles.id = ? OR (profiles.visibility = ? AND "+followerOfProfiles+")",
			"public", r.ProfileID, "followers", r.ProfileID,
		)
	}
}

// FollowParty scopes a follows query to relationships the requester is a
// party to. Relationship rows are never visible to third parties.
func FollowParty(r Requester) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !r.Authenticated {
			return db.Where("1 = 0")
		}
		return db.Where("follows.follower_id = ? OR follows.following_id = ?", r.ProfileID, r.ProfileID)
	}
}

// OwnedBy scopes a query on a table with a profile_id owner column to rows
// owned by the requester. Used for saved posts, sport settings and any other
// strictly-private child tables.
func OwnedBy(r Requester) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !r.Authenticated {
			return db.Where("1 = 0")
		}
		return db.Where("profile_id = ?", r.ProfileID)
	}
}

const followerOfPosts = `EXISTS (
	SELECT 1 FROM follows
	WHERE follows.following_id = posts.profile_id
	  AND follows.follower_id = ?
	  AND follows.status = 'accepted')`

const followerOfProfiles = `EXISTS (
	SELECT 1 FROM follows
	WHERE follows.following_id = profiles.id
	  AND follows.follower_id = ?
	  AND follows.status = 'accepted')`
