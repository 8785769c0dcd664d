package database

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"trendnest_backend/internal/config"
)

// Databases regroupe toutes les connexions externes. Construit une fois dans
// main et passé explicitement aux stores et services.
type Databases struct {
	Scylla  *ScyllaManager
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

// Connect initialise ScyllaDB, Redis, Elasticsearch et MinIO.
func Connect(cfg *config.Config) (*Databases, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	scylla, err := newScyllaManager(cfg.Scylla)
	if err != nil {
		return nil, fmt.Errorf("échec initialisation ScyllaDB: %w", err)
	}

	rdb, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	es, err := connectElastic(cfg.Elastic)
	if err != nil {
		return nil, err
	}

	mc, err := connectMinIO(ctx, cfg.MinIO)
	if err != nil {
		return nil, err
	}

	log.Println("✅ Toutes les bases de données sont connectées")
	return &Databases{Scylla: scylla, Redis: rdb, Elastic: es, MinIO: mc}, nil
}

// Close ferme proprement toutes les connexions.
func (d *Databases) Close() {
	if d.Scylla != nil {
		d.Scylla.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
}

// =============================================
// SCYLLA DB
// =============================================

type ScyllaManager struct {
	cfg     config.ScyllaConfig
	session *gocql.Session
	mu      sync.Mutex
}

func newScyllaManager(cfg config.ScyllaConfig) (*ScyllaManager, error) {
	sm := &ScyllaManager{cfg: cfg}
	if _, err := sm.Session(); err != nil {
		return nil, err
	}
	return sm, nil
}

// Session retourne la session courante, recréée si elle est invalide.
func (sm *ScyllaManager) Session() (*gocql.Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.session != nil {
		if err := sm.session.Query("SELECT now() FROM system.local").Exec(); err == nil {
			return sm.session, nil
		}
		sm.session.Close()
		sm.session = nil
	}

	cluster := gocql.NewCluster(sm.cfg.Hosts...)
	cluster.Keyspace = sm.cfg.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = sm.cfg.Timeout
	cluster.NumConns = sm.cfg.NumConns
	cluster.ReconnectInterval = 1 * time.Second
	if sm.cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: sm.cfg.Username,
			Password: sm.cfg.Password,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %w", sm.cfg.Keyspace, err)
	}

	sm.session = session
	log.Printf("✅ Session ScyllaDB ouverte sur le keyspace '%s'", sm.cfg.Keyspace)
	return session, nil
}

func (sm *ScyllaManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.session != nil {
		sm.session.Close()
		sm.session = nil
		log.Printf("🔌 Session ScyllaDB fermée pour keyspace '%s'", sm.cfg.Keyspace)
	}
}

// =============================================
// REDIS
// =============================================

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("erreur connexion Redis: %w", err)
	}
	log.Println("✅ Connecté à Redis")
	return rdb, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

func connectElastic(cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur création client Elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("erreur connexion Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	log.Println("✅ Connecté à Elasticsearch")
	return client, nil
}

// =============================================
// MINIO
// =============================================

func connectMinIO(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur connexion MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("erreur vérification bucket MinIO: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("erreur création bucket MinIO: %w", err)
		}
		log.Println("🪣 Bucket créé :", cfg.Bucket)
	} else {
		log.Println("🪣 Bucket MinIO déjà présent :", cfg.Bucket)
	}

	log.Println("✅ Connecté à MinIO :", cfg.Endpoint)
	return client, nil
}
