package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/prospectgenius/dashboard/app/models"
	"github.com/prospectgenius/dashboard/app/repository"
	"github.com/prospectgenius/dashboard/internal/pkg/env"
)

// ObjectGetter is the slice of the S3 API the importer needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Importer pulls funded-companies CSV snapshots from S3 and upserts them
// into the dataset table.
type Importer struct {
	s3Client  ObjectGetter
	bucket    string
	companies repository.CompanyRepository
}

// NewWithClient creates an importer with an injected object getter.
func NewWithClient(client ObjectGetter, bucket string, companies repository.CompanyRepository) *Importer {
	return &Importer{s3Client: client, bucket: bucket, companies: companies}
}

// New creates an importer from environment configuration.
func New(companies repository.CompanyRepository) (*Importer, error) {
	bucket := env.GetEnv("DATASET_S3_BUCKET", "")
	if bucket == "" {
		return nil, fmt.Errorf("dataset import is not configured (DATASET_S3_BUCKET missing)")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(env.GetEnv("DATASET_S3_REGION", "us-east-1")),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			env.GetEnv("DATASET_S3_ACCESS_KEY", ""),
			env.GetEnv("DATASET_S3_SECRET_KEY", ""),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint := env.GetEnv("DATASET_S3_ENDPOINT", ""); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &Importer{s3Client: s3Client, bucket: bucket, companies: companies}, nil
}

// Run downloads the snapshot object and upserts every row. Returns the
// number of imported rows; malformed rows are skipped and logged.
func (i *Importer) Run(ctx context.Context, key string) (int, error) {
	out, err := i.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(i.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch dataset object %s: %w", key, err)
	}
	defer out.Body.Close()

	return i.importCSV(out.Body)
}

// CSV columns: uuid,name,website,industry,funding_round,funding_amount_cents,investors,funded_at
func (i *Importer) importCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	imported := 0
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("csv read failed at line %d: %w", line, err)
		}
		line++

		// Skip the header row.
		if line == 1 && strings.EqualFold(record[0], "uuid") {
			continue
		}

		company, err := parseRow(record)
		if err != nil {
			log.Printf("importer: skipping line %d: %v", line, err)
			continue
		}

		if err := i.companies.UpsertByUUID(company); err != nil {
			log.Printf("importer: upsert failed for %s at line %d: %v", company.Name, line, err)
			continue
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string) (*models.Company, error) {
	if len(record) < 8 {
		return nil, fmt.Errorf("expected 8 columns, got %d", len(record))
	}

	name := strings.TrimSpace(record[1])
	if name == "" {
		return nil, fmt.Errorf("company name is empty")
	}

	id := strings.TrimSpace(record[0])
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid uuid %q: %w", id, err)
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(record[5]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid funding amount %q: %w", record[5], err)
	}

	fundedAt, err := parseDate(strings.TrimSpace(record[7]))
	if err != nil {
		return nil, fmt.Errorf("invalid funded_at %q: %w", record[7], err)
	}

	return &models.Company{
		UUID:               id,
		Name:               name,
		Website:            strings.TrimSpace(record[2]),
		Industry:           strings.TrimSpace(record[3]),
		FundingRound:       strings.TrimSpace(record[4]),
		FundingAmountCents: amount,
		Investors:          strings.TrimSpace(record[6]),
		FundedAt:           fundedAt,
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format")
}
