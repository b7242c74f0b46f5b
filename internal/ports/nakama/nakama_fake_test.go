package nakama

import (
	"context"
	"fmt"
	"strconv"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// fakeNakama overrides the NakamaModule calls the adapters make. Any other call
// panics through the nil embedded interface.
type fakeNakama struct {
	runtime.NakamaModule

	objects map[string]*api.StorageObject
	version int
	// conflicts rejects this many upcoming storage writes with a version error.
	conflicts int
	writes    int

	matches      []*api.Match
	listQuery    string
	created      []string
	createParams map[string]interface{}

	displayNames map[string]string
	accountErr   error
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{
		objects:      make(map[string]*api.StorageObject),
		displayNames: make(map[string]string),
	}
}

func storageID(collection, key, userID string) string {
	return collection + "/" + key + "/" + userID
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	var out []*api.StorageObject
	for _, r := range reads {
		if obj, ok := f.objects[storageID(r.Collection, r.Key, r.UserID)]; ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	acks := make([]*api.StorageObjectAck, 0, len(writes))
	for _, w := range writes {
		if f.conflicts > 0 {
			f.conflicts--
			return nil, runtime.ErrStorageRejectedVersion
		}
		id := storageID(w.Collection, w.Key, w.UserID)
		existing, exists := f.objects[id]
		switch {
		case w.Version == "*" && exists:
			return nil, runtime.ErrStorageRejectedVersion
		case w.Version != "" && w.Version != "*" && (!exists || existing.Version != w.Version):
			return nil, runtime.ErrStorageRejectedVersion
		}

		f.version++
		f.writes++
		obj := &api.StorageObject{
			Collection: w.Collection,
			Key:        w.Key,
			UserId:     w.UserID,
			Value:      w.Value,
			Version:    strconv.Itoa(f.version),
		}
		f.objects[id] = obj
		acks = append(acks, &api.StorageObjectAck{
			Collection: w.Collection,
			Key:        w.Key,
			Version:    obj.Version,
			UserId:     w.UserID,
		})
	}
	return acks, nil
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.listQuery = query
	return f.matches, nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.created = append(f.created, module)
	f.createParams = params
	return fmt.Sprintf("match-%d", len(f.created)), nil
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	if f.accountErr != nil {
		return f.accountErr
	}
	f.displayNames[userID] = displayName
	return nil
}
