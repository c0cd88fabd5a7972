// Package drive wraps the Google Drive v3 API with the three read-only calls
// the browser needs: folder lookup by name, child listing and file download.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/videogen/outputs-preview/internal/constants"
	"github.com/videogen/outputs-preview/internal/logging"
	"github.com/videogen/outputs-preview/internal/models"
	"github.com/videogen/outputs-preview/internal/ratelimit"
)

// ErrAuthentication wraps every failure to turn a key into a working token.
var ErrAuthentication = errors.New("drive authentication failed")

const (
	folderFields = "nextPageToken, files(id,name,modifiedTime)"
	childFields  = "nextPageToken, files(id,name,mimeType,size)"
)

// Client is a read-only Drive client. It is built once per process and is
// safe for concurrent use.
type Client struct {
	svc     *drivev3.Service
	limiter *ratelimit.RateLimiter
	logger  *logging.Logger
}

// Authenticate builds a Client from a service-account key.
//
// base carries every request (token exchange included), so proxy settings
// apply to authentication too. A token is fetched immediately so an invalid
// key fails here rather than on the first listing.
func Authenticate(ctx context.Context, keyJSON []byte, base *http.Client, logger *logging.Logger) (*Client, error) {
	jwtCfg, err := google.JWTConfigFromJSON(keyJSON, constants.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse service account key: %v", ErrAuthentication, err)
	}

	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	ts := oauth2.ReuseTokenSource(nil, jwtCfg.TokenSource(ctx))

	timer := StartTimer(logger.Output(), "Token exchange")
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	timer.Stop()

	svc, err := drivev3.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	logger.Info().Str("account", jwtCfg.Email).Msg("Authenticated to Google Drive")
	return NewClient(svc, logger), nil
}

// NewClient wraps an existing Drive service. Used with custom endpoints.
func NewClient(svc *drivev3.Service, logger *logging.Logger) *Client {
	return &Client{
		svc:     svc,
		limiter: ratelimit.NewDriveRateLimiter(logger),
		logger:  logger,
	}
}

// pace takes one request token. Called before every Drive request,
// including each additional list page.
func (c *Client) pace(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// observe starts a cooldown when err is a Drive rate-limit response.
func (c *Client) observe(err error) {
	if err == nil || !IsRateLimited(err) {
		return
	}
	d := RetryAfter(err, ratelimit.DefaultCooldown)
	c.logger.Warn().Dur("cooldown", d).Msg("Drive rate limit hit")
	c.limiter.SetCooldown(d)
}

// listPages runs call page by page, pacing every request.
func (c *Client) listPages(ctx context.Context, call *drivev3.FilesListCall, fn func(*drivev3.FileList)) error {
	if err := c.pace(ctx); err != nil {
		return err
	}
	err := call.Pages(ctx, func(page *drivev3.FileList) error {
		fn(page)
		if page.NextPageToken != "" {
			return c.pace(ctx)
		}
		return nil
	})
	c.observe(err)
	return err
}

// FindFolders returns non-trashed folders named name. When parentID is not
// empty only direct children of that folder are considered.
func (c *Client) FindFolders(ctx context.Context, name, parentID string) ([]models.FolderRef, error) {
	q := FolderQuery(name, parentID)
	timer := StartTimer(c.logger.Output(), "List folders "+name)
	defer timer.Stop()

	var out []models.FolderRef
	call := c.svc.Files.List().
		Q(q).
		Fields(googleapi.Field(folderFields)).
		PageSize(constants.ListPageSize)
	err := c.listPages(ctx, call, func(page *drivev3.FileList) {
		for _, f := range page.Files {
			out = append(out, models.FolderRef{
				ID:           f.Id,
				Name:         f.Name,
				ModifiedTime: parseTime(f.ModifiedTime),
			})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("list folders named %q: %w", name, err)
	}

	c.logger.Debug().Str("name", name).Str("parent", parentID).Int("matches", len(out)).Msg("Folder lookup")
	return out, nil
}

// ListChildren returns the non-trashed direct children of folderID in the
// order Drive lists them.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]models.RemoteFile, error) {
	timer := StartTimer(c.logger.Output(), "List children "+folderID)
	defer timer.Stop()

	var out []models.RemoteFile
	call := c.svc.Files.List().
		Q(ChildrenQuery(folderID)).
		Fields(googleapi.Field(childFields)).
		PageSize(constants.ListPageSize)
	err := c.listPages(ctx, call, func(page *drivev3.FileList) {
		for _, f := range page.Files {
			out = append(out, models.RemoteFile{
				ID:       f.Id,
				Name:     f.Name,
				MimeType: f.MimeType,
				Size:     f.Size,
			})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", folderID, err)
	}
	return out, nil
}

// Open starts a download of fileID. The caller must close the reader.
// The returned size is -1 when Drive did not report a length.
func (c *Client) Open(ctx context.Context, fileID string) (io.ReadCloser, int64, error) {
	if err := c.pace(ctx); err != nil {
		return nil, 0, err
	}
	resp, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		c.observe(err)
		return nil, 0, fmt.Errorf("download %s: %w", fileID, err)
	}
	return resp.Body, resp.ContentLength, nil
}

// Download reads the full content of fileID into memory.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	timer := StartTimer(c.logger.Output(), "Download "+fileID)

	body, _, err := c.Open(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileID, err)
	}
	timer.StopWithThroughput(int64(len(data)))
	return data, nil
}

// FolderQuery builds the files.list query for folders named name.
func FolderQuery(name, parentID string) string {
	var parts []string
	if parentID != "" {
		parts = append(parts, fmt.Sprintf("'%s' in parents", EscapeQuery(parentID)))
	}
	parts = append(parts,
		fmt.Sprintf("name = '%s'", EscapeQuery(name)),
		fmt.Sprintf("mimeType = '%s'", constants.FolderMimeType),
		"trashed = false",
	)
	return strings.Join(parts, " and ")
}

// ChildrenQuery builds the files.list query for the children of folderID.
func ChildrenQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and trashed = false", EscapeQuery(folderID))
}

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// EscapeQuery escapes a value for use inside a single-quoted query string.
func EscapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

// parseTime parses a Drive RFC 3339 timestamp. Unparsable values give the zero time.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Latest returns the folder with the latest modification time.
// Ties keep the earlier entry. ok is false for an empty list.
func Latest(folders []models.FolderRef) (latest models.FolderRef, ok bool) {
	for i, f := range folders {
		if i == 0 || f.ModifiedTime.After(latest.ModifiedTime) {
			latest = f
		}
	}
	return latest, len(folders) > 0
}
