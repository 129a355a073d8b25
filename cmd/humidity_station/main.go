package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mthorley/humiditystn"

	log "github.com/sirupsen/logrus"
)

func init() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)

	log.SetLevel(log.DebugLevel)
}

func main() {
	migrations := flag.Int("migrations", 0, "specifies to run n migrations (can be negative) and then exit")
	migrateAll := flag.Bool("migrateall", false, "specifies to run all migrations and then exit")
	configPath := flag.String("config", "config.json", "path to the config file")
	flag.Parse()

	config := humiditystn.NewAppConfig(*configPath)
	if err := config.Parse(); err != nil {
		log.WithError(err).Panic("failed to parse config")
	}

	log.Info(fmt.Sprintf("Running with config: %#v", config))

	if *migrations != 0 || *migrateAll {
		if *migrations != 0 && *migrateAll {
			panic("migrations and migrateall cannot be run together")
		}
		if err := doMigrate(config.DatabaseConfig.Path, config.DatabaseConfig.Migrations, *migrations,
			*migrateAll); err != nil {
			log.WithError(err).Panic("failed to perform migrations")
		}

		return
	}

	sensorProvider := humiditystn.NewHTU21DSensorProvider(config.ProducerConfig.Sensor)
	if err := sensorProvider.Connect(); err != nil {
		log.WithError(err).Panic("failed to connect to humidity provider")
	}

	db, err := sqlx.Open("sqlite3", config.DatabaseConfig.Path)
	if err != nil {
		log.WithError(err).Panic("failed to connect to datastore")
	}

	datastore := humiditystn.NewSqliteDataStore(db)
	var wg sync.WaitGroup

	producer := humiditystn.NewSensorProducer(sensorProvider, datastore)
	go func() {
		producer.Run(time.Duration(config.ProducerConfig.PollIntervalSecs) * time.Second)
	}()
	wg.Add(1)

	publisher := humiditystn.NewPublisher(datastore, config.PublisherConfig.EndpointConfig, &http.Client{})
	go func() {
		publisher.Run(time.Duration(config.PublisherConfig.PushIntervalSecs) * time.Second)
	}()
	wg.Add(1)

	stopSig := make(chan os.Signal, 1)
	signal.Notify(stopSig, os.Interrupt)
	defer signal.Stop(stopSig)

	<-stopSig

	go func() {
		<-producer.Stop()
		wg.Done()
	}()
	go func() {
		publisher.Stop()
		wg.Done()
	}()

	wg.Wait()
	sensorProvider.Disconnect()
	fmt.Println("Graceful shutdown completed")
}

func doMigrate(dbPath, migrationsPath string, n int, all bool) error {
	m, err := migrate.New(
		"file://"+migrationsPath,
		"sqlite3://"+dbPath)
	if err != nil {
		return err
	}

	if all {
		err = m.Up()
		if err != nil {
			return err
		}
	}
	if n != 0 {
		err = m.Steps(n)
		if err != nil {
			return err
		}
	}

	return nil
}
