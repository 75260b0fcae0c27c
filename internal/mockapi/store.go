package mockapi

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one JSON object as the API would return it.
type Record = map[string]any

// Store holds the fake API state. All methods are safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	me             Record
	users          map[string]Record
	onlineFriends  []string
	offlineFriends []string
	avatars        map[string]Record
	avatarOrder    []string
	worlds         map[string]Record
	instances      map[string]Record
	favorites      map[string]Record
	favoriteOrder  []string
	notifications  map[string]Record
	notifyOrder    []string
	moderations    []Record
}

// MeID is the id of the authenticated fixture user.
const MeID = "usr_me"

// NewStore returns a store seeded with a small, consistent fixture graph:
// the current user, three friends, two worlds with instances, avatars,
// favorites of each type and two notifications.
func NewStore() *Store {
	s := &Store{
		users:         make(map[string]Record),
		avatars:       make(map[string]Record),
		worlds:        make(map[string]Record),
		instances:     make(map[string]Record),
		favorites:     make(map[string]Record),
		notifications: make(map[string]Record),
	}

	s.me = Record{
		"id":                   MeID,
		"username":             "birb",
		"displayName":          "Birb",
		"email":                "birb@example.com",
		"emailVerified":        true,
		"status":               "active",
		"statusDescription":    "chirping",
		"bio":                  "",
		"bioLinks":             []string{},
		"currentAvatar":        "avtr_birb",
		"homeLocation":         "wrld_nest",
		"friends":              []string{"usr_pug", "usr_cat", "usr_fox"},
		"activeFriends":        []string{"usr_fox", "usr_pug"},
		"twoFactorAuthEnabled": false,
		"acceptedTOSVersion":   7,
		"date_joined":          "2020-04-01",
	}

	for _, u := range []Record{
		{"id": "usr_pug", "displayName": "Pug", "status": "join me", "location": "wrld_pug:1111~public", "isFriend": true},
		{"id": "usr_cat", "displayName": "Cat", "status": "busy", "location": "private", "isFriend": true},
		{"id": "usr_fox", "displayName": "Fox", "status": "offline", "location": "offline", "isFriend": true},
		{"id": "usr_stranger", "displayName": "Stranger", "status": "active", "isFriend": false},
	} {
		s.users[u["id"].(string)] = u
	}
	s.onlineFriends = []string{"usr_pug", "usr_cat"}
	s.offlineFriends = []string{"usr_fox"}

	for _, a := range []Record{
		{"id": "avtr_birb", "name": "Birb", "authorId": MeID, "authorName": "birb", "releaseStatus": "private", "version": 3},
		{"id": "avtr_birb_public", "name": "Birb (public)", "authorId": MeID, "authorName": "birb", "releaseStatus": "public", "version": 1},
		{"id": "avtr_pug", "name": "Pug", "authorId": "usr_pug", "authorName": "Pug", "releaseStatus": "public", "version": 12},
	} {
		s.putAvatar(a)
	}

	s.worlds["wrld_nest"] = Record{
		"id": "wrld_nest", "name": "The Nest", "authorId": MeID, "authorName": "birb",
		"capacity": 16, "releaseStatus": "private",
		"instances": [][]any{{"1~private(usr_me)~nonce(abc)", 1}},
	}
	s.worlds["wrld_pug"] = Record{
		"id": "wrld_pug", "name": "The Great Pug", "authorId": "usr_pug", "authorName": "Pug",
		"capacity": 40, "releaseStatus": "public", "visits": 9001,
		"instances": [][]any{{"1111~public", 12}, {"2222~friends(usr_pug)~nonce(xyz)", 3}, {"3333~public", 0}},
	}
	for wid, w := range s.worlds {
		for _, ref := range w["instances"].([][]any) {
			iid := ref[0].(string)
			s.instances[wid+":"+iid] = Record{
				"id": wid + ":" + iid, "instanceId": iid, "worldId": wid, "location": wid + ":" + iid,
				"n_users": ref[1], "capacity": w["capacity"], "full": false, "region": "us",
				"platforms": map[string]int{"standalonewindows": ref[1].(int), "android": 0},
			}
		}
	}

	for _, f := range []Record{
		{"id": "fvrt_world", "type": "world", "favoriteId": "wrld_pug", "tags": []string{"worlds1"}},
		{"id": "fvrt_friend", "type": "friend", "favoriteId": "usr_pug", "tags": []string{"group_0"}},
		{"id": "fvrt_avatar", "type": "avatar", "favoriteId": "avtr_pug", "tags": []string{"avatars1"}},
	} {
		s.putFavorite(f)
	}

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for _, n := range []Record{
		{"id": "not_friend", "type": "friendRequest", "senderUserId": "usr_stranger", "senderUsername": "stranger",
			"receiverUserId": MeID, "message": "", "seen": false, "created_at": now},
		{"id": "not_invite", "type": "invite", "senderUserId": "usr_pug", "senderUsername": "pug",
			"receiverUserId": MeID, "message": "come hang", "seen": false, "created_at": now.Add(time.Hour),
			"details": Record{"worldId": "wrld_pug:1111~public", "worldName": "The Great Pug"}},
	} {
		s.notifications[n["id"].(string)] = n
		s.notifyOrder = append(s.notifyOrder, n["id"].(string))
	}

	return s
}

func (s *Store) putAvatar(a Record) {
	id := a["id"].(string)
	if _, ok := s.avatars[id]; !ok {
		s.avatarOrder = append(s.avatarOrder, id)
	}
	s.avatars[id] = a
}

func (s *Store) putFavorite(f Record) {
	id := f["id"].(string)
	if _, ok := s.favorites[id]; !ok {
		s.favoriteOrder = append(s.favoriteOrder, id)
	}
	s.favorites[id] = f
}

func (s *Store) Me() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.me)
}

// UpdateMe applies non-nil fields of update to the current user.
func (s *Store) UpdateMe(update Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range update {
		if v != nil {
			s.me[k] = v
		}
	}
	return clone(s.me)
}

func (s *Store) User(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == MeID {
		return clone(s.me), true
	}
	u, ok := s.users[id]
	return clone(u), ok
}

// Friends lists online or offline friends.
func (s *Store) Friends(offline bool) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.onlineFriends
	if offline {
		ids = s.offlineFriends
	}
	return s.collect(ids, s.users)
}

// Unfriend removes id from both friend lists. It reports whether id was a friend.
func (s *Store) Unfriend(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.onlineFriends) + len(s.offlineFriends)
	s.onlineFriends = slices.DeleteFunc(s.onlineFriends, func(v string) bool { return v == id })
	s.offlineFriends = slices.DeleteFunc(s.offlineFriends, func(v string) bool { return v == id })
	return len(s.onlineFriends)+len(s.offlineFriends) < before
}

func (s *Store) Avatar(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.avatars[id]
	return clone(a), ok
}

// Avatars lists avatars matching keep.
func (s *Store) Avatars(keep func(Record) bool) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0)
	for _, a := range s.collect(s.avatarOrder, s.avatars) {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) World(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.worlds[id]
	return clone(w), ok
}

// Instance looks up "<worldId>:<instanceId>".
func (s *Store) Instance(location string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.instances[location]
	return clone(i), ok
}

// Favorites lists favorites of type t, or all when t is empty.
func (s *Store) Favorites(t string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0)
	for _, f := range s.collect(s.favoriteOrder, s.favorites) {
		if t == "" || f["type"] == t {
			out = append(out, f)
		}
	}
	return out
}

func (s *Store) Favorite(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.favorites[id]
	return clone(f), ok
}

// AddFavorite records a new favorite and returns it.
func (s *Store) AddFavorite(t, favoriteID string, tags []string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tags == nil {
		tags = []string{}
	}
	f := Record{"id": "fvrt_" + uuid.NewString(), "type": t, "favoriteId": favoriteID, "tags": tags}
	s.putFavorite(f)
	return clone(f)
}

func (s *Store) RemoveFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.favorites[id]; !ok {
		return false
	}
	delete(s.favorites, id)
	s.favoriteOrder = slices.DeleteFunc(s.favoriteOrder, func(v string) bool { return v == id })
	return true
}

// Notifications lists notifications of type t; "" and "all" list every
// notification that is not hidden.
func (s *Store) Notifications(t string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0)
	for _, n := range s.collect(s.notifyOrder, s.notifications) {
		hidden := n["hidden"] == true
		switch {
		case t == "hidden" && hidden:
			out = append(out, n)
		case (t == "" || t == "all") && !hidden:
			out = append(out, n)
		case t == n["type"] && !hidden:
			out = append(out, n)
		}
	}
	return out
}

// AddNotification records a notification sent by the current user.
func (s *Store) AddNotification(t, receiver string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := Record{
		"id": "not_" + uuid.NewString(), "type": t, "senderUserId": MeID, "senderUsername": s.me["username"],
		"receiverUserId": receiver, "message": "", "seen": false, "created_at": time.Now().UTC(),
	}
	s.notifications[n["id"].(string)] = n
	s.notifyOrder = append(s.notifyOrder, n["id"].(string))
	return clone(n)
}

// UpdateNotification sets field on notification id.
func (s *Store) UpdateNotification(id, field string, value any) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, false
	}
	n[field] = value
	return clone(n), true
}

// AcceptFriendRequest accepts notification id and befriends its sender.
func (s *Store) AcceptFriendRequest(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return fmt.Errorf("notification %s not found", id)
	}
	if n["type"] != "friendRequest" {
		return fmt.Errorf("notification %s is not a friend request", id)
	}
	sender := n["senderUserId"].(string)
	if !slices.Contains(s.offlineFriends, sender) && !slices.Contains(s.onlineFriends, sender) {
		s.offlineFriends = append(s.offlineFriends, sender)
	}
	n["hidden"] = true
	return nil
}

// Moderate records moderation t of target by the current user.
func (s *Store) Moderate(target, t string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := Record{
		"id": "pmod_" + uuid.NewString(), "type": t,
		"sourceUserId": MeID, "sourceDisplayName": s.me["displayName"],
		"targetUserId": target, "created": time.Now().UTC(),
	}
	if u, ok := s.users[target]; ok {
		m["targetDisplayName"] = u["displayName"]
	}
	s.moderations = append(s.moderations, m)
	return clone(m)
}

// Unmoderate removes moderation t of target. It reports whether one existed.
func (s *Store) Unmoderate(target, t string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.moderations)
	s.moderations = slices.DeleteFunc(s.moderations, func(m Record) bool {
		return m["targetUserId"] == target && m["type"] == t
	})
	return len(s.moderations) < before
}

func (s *Store) Moderations(t string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.moderations))
	for _, m := range s.moderations {
		if t == "" || m["type"] == t {
			out = append(out, clone(m))
		}
	}
	return out
}

func (s *Store) collect(ids []string, from map[string]Record) []Record {
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if r, ok := from[id]; ok {
			out = append(out, clone(r))
		}
	}
	return out
}

// clone copies the top level of r so handlers can't mutate stored records.
func clone(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
