package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/querycache"
	"go.uber.org/zap"
)

type RoundTripperFunc func(req *http.Request) (*http.Response, error)

func (fn RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

// Client talks to the huddle REST API. All reads go through its query cache.
type Client struct {
	logger  *zap.SugaredLogger
	options *options
	baseURL *url.URL
	client  *http.Client
	cache   *querycache.Cache

	Organizations   *Resource[models.Organization, models.AddOrganization, models.UpdateOrganization, OrganizationListParams]
	Subscriptions   *Resource[models.Subscription, models.AddSubscription, models.UpdateSubscription, SubscriptionListParams]
	Profiles        *Resource[models.Profile, models.AddProfile, models.UpdateProfile, ProfileListParams]
	Seats           *Resource[models.Seat, models.AddSeat, models.UpdateSeat, SeatListParams]
	Users           *Resource[models.User, models.AddUser, models.UpdateUser, UserListParams]
	FilteredUsers   *Query[models.User, FilteredUserListParams]
	Courses         *Resource[models.Course, models.AddCourse, models.UpdateCourse, CourseListParams]
	OrgCourses      *Resource[models.OrgCourse, models.AddOrgCourse, models.UpdateOrgCourse, OrgCourseListParams]
	Teams           *Resource[models.Team, models.AddTeam, models.UpdateTeam, TeamListParams]
	Feedback        *Resource[models.Feedback, models.AddFeedback, models.UpdateFeedback, FeedbackListParams]
	InvitationCodes *Resource[models.InvitationCode, models.AddInvitationCode, models.UpdateInvitationCode, InvitationCodeListParams]
}

func NewClient(ctx context.Context, addr string, options ...Option) (*Client, error) {
	opts, err := newOptions(options...)
	if err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url '%s': http or https scheme required", addr)
	}

	c := &Client{
		options: opts,
		baseURL: baseURL,
		logger:  opts.logger,
		cache:   opts.cache,
	}
	if c.logger == nil {
		c.logger = zap.NewNop().Sugar()
	}
	if c.cache == nil {
		c.cache = querycache.New(querycache.WithLogger(c.logger))
	}

	c.client, err = newHTTPClient(opts)
	if err != nil {
		return nil, err
	}

	c.Organizations = NewResource[models.Organization, models.AddOrganization, models.UpdateOrganization, OrganizationListParams](c, "organizations")
	c.Subscriptions = NewResource[models.Subscription, models.AddSubscription, models.UpdateSubscription, SubscriptionListParams](c, "subscriptions")
	c.Profiles = NewResource[models.Profile, models.AddProfile, models.UpdateProfile, ProfileListParams](c, "profiles")
	c.Seats = NewResource[models.Seat, models.AddSeat, models.UpdateSeat, SeatListParams](c, "seats")
	c.Users = NewResource[models.User, models.AddUser, models.UpdateUser, UserListParams](c, "users")
	c.FilteredUsers = NewQuery[models.User, FilteredUserListParams](c, "filtered-users")
	c.Courses = NewResource[models.Course, models.AddCourse, models.UpdateCourse, CourseListParams](c, "courses")
	c.OrgCourses = NewResource[models.OrgCourse, models.AddOrgCourse, models.UpdateOrgCourse, OrgCourseListParams](c, "org-courses")
	c.Teams = NewResource[models.Team, models.AddTeam, models.UpdateTeam, TeamListParams](c, "teams")
	c.Feedback = NewResource[models.Feedback, models.AddFeedback, models.UpdateFeedback, FeedbackListParams](c, "feedback")
	c.InvitationCodes = NewResource[models.InvitationCode, models.AddInvitationCode, models.UpdateInvitationCode, InvitationCodeListParams](c, "invitation-codes")
	return c, nil
}

func newHTTPClient(opts *options) (*http.Client, error) {
	httpClient := opts.httpClient
	if httpClient == nil {
		dialer := &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient = &http.Client{
			Jar: jar,
			Transport: &http.Transport{
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				ExpectContinueTimeout: 5 * time.Second,
				TLSClientConfig:       opts.tlsConfig,
			},
		}
	} else {
		copied := *httpClient
		httpClient = &copied
	}

	nextTransport := httpClient.Transport
	if nextTransport == nil {
		nextTransport = http.DefaultTransport
	}
	httpClient.Transport = RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if opts.bearerToken != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", opts.bearerToken))
		}
		if opts.userAgent != "" {
			req.Header.Set("User-Agent", opts.userAgent)
		}
		return nextTransport.RoundTrip(req)
	})
	return httpClient, nil
}

// Cache returns the query cache shared by all resources of the client.
func (c *Client) Cache() *querycache.Cache {
	return c.cache
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta json.RawMessage `json:"meta,omitempty"`
}

// do sends one request and returns the data and meta members of the response envelope.
func (c *Client) do(ctx context.Context, method string, path string, query string, body any) (querycache.Entry, error) {
	dest := c.baseURL.JoinPath(path)
	dest.RawQuery = query

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return querycache.Entry{}, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, dest.String(), reader)
	if err != nil {
		return querycache.Entry{}, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debugw("api request", "method", method, "url", dest.String())
	res, err := c.client.Do(req)
	if err != nil {
		return querycache.Entry{}, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return querycache.Entry{}, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return querycache.Entry{}, newAPIError(res.StatusCode, resBody)
	}
	if res.StatusCode == http.StatusNoContent || len(resBody) == 0 {
		return querycache.Entry{}, nil
	}

	var env envelope
	if err := json.Unmarshal(resBody, &env); err != nil {
		return querycache.Entry{}, fmt.Errorf("invalid response from %s %s: %w", method, path, err)
	}
	return querycache.Entry{Data: env.Data, Meta: env.Meta}, nil
}
