package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"

	"github.com/y0ug/linkedauth/pkg/auth"
)

const (
	bucketUsers        = "Users"
	bucketAccessTokens = "ProviderAccessTokens"
)

// BoltDB implements the Database interface using bbolt.
type BoltDB struct {
	db     *bbolt.DB
	logger *logrus.Logger
}

// NewBoltDB initializes a new BoltDB instance.
func NewBoltDB(path string, logger *logrus.Logger) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	boltDB := &BoltDB{
		db:     db,
		logger: logger,
	}

	if err := boltDB.Initialize(context.TODO()); err != nil {
		return nil, err
	}

	return boltDB, nil
}

// Initialize sets up the necessary buckets.
func (b *BoltDB) Initialize(ctx context.Context) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketUsers)); err != nil {
			return fmt.Errorf("create %s bucket: %v", bucketUsers, err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketAccessTokens)); err != nil {
			return fmt.Errorf("create %s bucket: %v", bucketAccessTokens, err)
		}
		return nil
	})
}

func (b *BoltDB) Close(ctx context.Context) error {
	return b.db.Close()
}

// UpsertUser creates or updates the record keyed by user.UID.
func (b *BoltDB) UpsertUser(ctx context.Context, user auth.UserRecord) (bool, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return false, fmt.Errorf("failed to marshal UserRecord: %w", err)
	}

	var created bool
	err = b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketUsers))
		key := []byte(user.UID)
		created = bucket.Get(key) == nil
		return bucket.Put(key, data)
	})
	if err != nil {
		return false, err
	}

	if created {
		b.logger.WithField("uid", user.UID).Debug("Created new user record")
	}
	return created, nil
}

// GetUser retrieves the record for uid.
func (b *BoltDB) GetUser(ctx context.Context, uid string) (auth.UserRecord, error) {
	var user auth.UserRecord
	err := b.db.View(func(tx *bbolt.Tx) error {
		val := tx.Bucket([]byte(bucketUsers)).Get([]byte(uid))
		if val == nil {
			return auth.ErrUserNotFound
		}
		return json.Unmarshal(val, &user)
	})
	return user, err
}

// StoreAccessToken persists the provider access token for uid.
func (b *BoltDB) StoreAccessToken(ctx context.Context, uid string, token string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketAccessTokens)).Put([]byte(uid), []byte(token))
	})
}

// GetAccessToken retrieves the provider access token for uid.
func (b *BoltDB) GetAccessToken(ctx context.Context, uid string) (string, error) {
	var token string
	err := b.db.View(func(tx *bbolt.Tx) error {
		val := tx.Bucket([]byte(bucketAccessTokens)).Get([]byte(uid))
		if val == nil {
			return auth.ErrTokenNotFound
		}
		token = string(val)
		return nil
	})
	return token, err
}
