package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"time"

	"scholar-desk/storage"

	"github.com/kelseyhightower/envconfig"
)

// BackupConfig hält die Parameter für den Dump- und Upload-Lauf. Der Job
// läuft als eigenständiges Binary (z.B. per Cron im Container).
type BackupConfig struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	S3Bucket    string `envconfig:"BACKUP_S3_BUCKET" required:"true"`
	S3Endpoint  string `envconfig:"BACKUP_S3_ENDPOINT" required:"true"`
	S3AccessKey string `envconfig:"BACKUP_S3_ACCESS_KEY" required:"true"`
	S3SecretKey string `envconfig:"BACKUP_S3_SECRET_KEY" required:"true"`
	S3Region    string `envconfig:"BACKUP_S3_REGION" required:"true"`

	KeepBackups int `envconfig:"KEEP_BACKUPS" default:"4"`
}

func main() {
	log.Println("Starte Datenbank-Backup...")

	var cfg BackupConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}

	ctx := context.Background()

	dump, err := createDump(cfg)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des DB-Dumps: %v", err)
	}

	client, err := storage.NewClient(ctx, cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des S3-Clients: %v", err)
	}

	key := fmt.Sprintf("scholar-desk-%s.sql.gz", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	if err := client.Upload(ctx, key, dump); err != nil {
		log.Fatalf("Fehler beim Hochladen nach S3: %v", err)
	}
	log.Printf("Backup erfolgreich nach s3://%s/%s hochgeladen", cfg.S3Bucket, key)

	if err := rotateBackups(ctx, client, cfg.KeepBackups); err != nil {
		log.Fatalf("Fehler bei der Rotation alter Backups: %v", err)
	}

	log.Println("Backup-Lauf abgeschlossen.")
}

// createDump führt pg_dump aus und komprimiert den Stream mit gzip.
func createDump(cfg BackupConfig) ([]byte, error) {
	cmd := exec.Command("pg_dump",
		"-h", cfg.DBHost,
		"-U", cfg.DBUser,
		"-d", cfg.DBName,
		"-w", // Passwort kommt über PGPASSWORD
	)
	cmd.Env = append(os.Environ(), fmt.Sprintf("PGPASSWORD=%s", cfg.DBPassword))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := io.Copy(gz, stdout); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rotateBackups behält die `keep` neuesten Archive und löscht den Rest.
func rotateBackups(ctx context.Context, client *storage.Client, keep int) error {
	archives, err := client.List(ctx)
	if err != nil {
		return err
	}
	if len(archives) <= keep {
		log.Printf("Höchstens %d Backups vorhanden, keine Rotation nötig.", keep)
		return nil
	}

	for _, archive := range archives[keep:] {
		log.Printf("Lösche altes Backup: %s", archive.Key)
		if err := client.Delete(ctx, archive.Key); err != nil {
			log.Printf("Fehler beim Löschen von %s: %v", archive.Key, err)
		}
	}
	return nil
}
