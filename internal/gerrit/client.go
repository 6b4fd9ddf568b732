package gerrit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gerrit-reviewstats/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Runner выполняет команду на сервере Gerrit и отдает ее stdout.
// Close у результата дожидается завершения команды.
type Runner interface {
	Run(ctx context.Context, cmd string) (io.ReadCloser, error)
}

// Client выполняет постраничные запросы изменений к Gerrit.
type Client struct {
	runner  Runner
	limiter *rate.Limiter
	logger  logrus.FieldLogger
}

// NewClient создает новый экземпляр Client.
// interval ограничивает частоту запросов страниц; 0 - без ограничения.
func NewClient(runner Runner, interval time.Duration, logger logrus.FieldLogger) *Client {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &Client{
		runner:  runner,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// queryRow - служебная строка вывода gerrit query.
type queryRow struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	RowCount    int    `json:"rowCount"`
	MoreChanges *bool  `json:"moreChanges"`
}

// GetChanges возвращает все изменения проекта со всеми патчсетами и голосами.
func (c *Client) GetChanges(ctx context.Context, project *domain.Project, opts domain.FetchOptions) ([]domain.Change, error) {
	var (
		changes []domain.Change
		resume  string
	)

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		cmd := QueryCommand(project, opts, resume)
		page, stats, err := c.queryPage(ctx, cmd)
		if err != nil {
			return nil, err
		}
		changes = append(changes, page...)

		c.logger.WithFields(logrus.Fields{
			"project":   project.Name,
			"row_count": stats.RowCount,
			"fetched":   len(changes),
		}).Debug("Gerrit page received")

		if stats.RowCount == 0 || len(page) == 0 {
			break
		}
		if stats.MoreChanges != nil && !*stats.MoreChanges {
			break
		}

		if last := page[len(page)-1]; last.SortKey != "" {
			resume = "resume_sortkey:" + last.SortKey
		} else {
			resume = fmt.Sprintf("--start %d", len(changes))
		}
	}

	return changes, nil
}

func (c *Client) queryPage(ctx context.Context, cmd string) ([]domain.Change, *queryRow, error) {
	out, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrGerritQuery, err)
	}

	changes, stats, decodeErr := decodePage(out)
	if err := out.Close(); err != nil && decodeErr == nil {
		decodeErr = fmt.Errorf("%w: %v", domain.ErrGerritQuery, err)
	}
	if decodeErr != nil {
		return nil, nil, decodeErr
	}

	return changes, stats, nil
}

// decodePage разбирает поток JSON-объектов: изменения и завершающую строку stats.
func decodePage(r io.Reader) ([]domain.Change, *queryRow, error) {
	var (
		changes []domain.Change
		stats   *queryRow
	)

	dec := json.NewDecoder(r)
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: malformed output: %v", domain.ErrGerritQuery, err)
		}

		var row queryRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, nil, fmt.Errorf("%w: malformed row: %v", domain.ErrGerritQuery, err)
		}

		switch row.Type {
		case "stats":
			stats = &row
		case "error":
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrGerritQuery, row.Message)
		default:
			var change domain.Change
			if err := json.Unmarshal(raw, &change); err != nil {
				return nil, nil, fmt.Errorf("%w: malformed change: %v", domain.ErrGerritQuery, err)
			}
			changes = append(changes, change)
		}
	}

	if stats == nil {
		return nil, nil, fmt.Errorf("%w: missing stats row", domain.ErrGerritQuery)
	}

	return changes, stats, nil
}
