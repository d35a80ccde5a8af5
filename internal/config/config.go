package config

import (
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/solulab/nft-marketplace/internal/log"
	"go.uber.org/zap"
)

type Config struct {
	Env        string
	Network    string
	Index      string
	Reindex    bool
	Debug      bool
	LogPath    string
	SentryDsn  string
	HealthPort string

	MetadataRetries int
	MetadataTimeout int
	IpfsHosts       []string

	Marketplace   MarketplaceConfig
	ElasticSearch ElasticSearchConfig
	Amqp          AmqpConfig
}

type MarketplaceConfig struct {
	// Admin settles sales on behalf of users; Owner controls the fee.
	Admin         string
	Owner         string
	Escrow        string
	NftAddress    string
	ChainId       int64
	ServiceFeeBps uint64
}

type ElasticSearchConfig struct {
	Hosts            []string
	Sniff            bool
	HealthCheck      bool
	Debug            bool
	Username         string
	Password         string
	MappingDir       string
	BulkPersistCount int
	Refresh          string
}

type AmqpConfig struct {
	Uri string
}

var ipfsHosts = []string{
	"https://gateway.pinata.cloud",
	"https://cloudflare-ipfs.com",
	"https://gateway.ipfs.io",
	"https://ipfs.eth.aragon.network",
}

func Init(app string) {
	if err := godotenv.Load(".env"); err != nil {
		zap.L().With(zap.Error(err)).Warn("Unable to load .env")
	}

	initLogger(app)
}

func initLogger(app string) {
	cfg := Get()
	log.NewLogger(cfg.LogPath+"/"+app+".log", cfg.Debug, cfg.SentryDsn)
}

func Get() *Config {
	return &Config{
		Env:             getString("ENV", ""),
		Network:         getString("NETWORK", "mainnet"),
		Index:           getString("INDEX_NAME", "marketplace"),
		Reindex:         getBool("REINDEX", false),
		Debug:           getBool("DEBUG", false),
		LogPath:         getString("LOG_PATH", "./var/logs"),
		SentryDsn:       getString("SENTRY_DSN", ""),
		HealthPort:      getString("HEALTH_PORT", "8080"),
		MetadataRetries: getInt("METADATA_RETRIES", 3),
		MetadataTimeout: getInt("METADATA_TIMEOUT", 10),
		IpfsHosts:       getSlice("IPFS_HOSTS", ipfsHosts, ","),
		Marketplace: MarketplaceConfig{
			Admin:         getString("MARKETPLACE_ADMIN", ""),
			Owner:         getString("MARKETPLACE_OWNER", ""),
			Escrow:        getString("MARKETPLACE_ESCROW", ""),
			NftAddress:    getString("MARKETPLACE_NFT_ADDRESS", ""),
			ChainId:       int64(getInt("MARKETPLACE_CHAIN_ID", 1)),
			ServiceFeeBps: uint64(getInt("MARKETPLACE_SERVICE_FEE_BPS", 250)),
		},
		ElasticSearch: ElasticSearchConfig{
			Hosts:            getSlice("ELASTIC_SEARCH_HOSTS", make([]string, 0), ","),
			Sniff:            getBool("ELASTIC_SEARCH_SNIFF", true),
			HealthCheck:      getBool("ELASTIC_SEARCH_HEALTH_CHECK", true),
			Debug:            getBool("ELASTIC_SEARCH_DEBUG", false),
			Username:         getString("ELASTIC_SEARCH_USERNAME", ""),
			Password:         getString("ELASTIC_SEARCH_PASSWORD", ""),
			MappingDir:       getString("ELASTIC_SEARCH_MAPPING_DIR", "./data/mappings"),
			BulkPersistCount: getInt("ELASTIC_SEARCH_BULK_PERSIST_COUNT", 300),
			Refresh:          getString("ELASTIC_SEARCH_REFRESH", "wait_for"),
		},
		Amqp: AmqpConfig{
			Uri: getString("AMQP_URI", ""),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getSlice(key string, defaultVal []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultVal
	}

	return strings.Split(valStr, sep)
}
