package whatsapp

import (
	"context"
	"encoding/base64"
	"errors"
	"runtime"
	"strings"
	"sync"
	"time"

	qrCode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/singleflight"
	"google.golang.org/protobuf/proto"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waCompanionReg"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/wasex/go-whatsapp-sender-console/pkg/env"
	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
)

// ContactSink receives contact sightings from session sync events.
// Merges must be idempotent; sync events repeat and arrive out of order.
type ContactSink interface {
	Merge(id, name string) bool
	Len() int
}

var ErrClientNotReady = errors.New("whatsapp client is not connected, pair the device first")

const pairPhoneRequestTimeout = 90 * time.Second

// Session owns the single whatsmeow client of this console: pairing,
// connection state, the current QR code and the sync-event fan-in to
// the contact directory.
type Session struct {
	mu        sync.RWMutex
	client    *whatsmeow.Client
	connected bool
	currentQR string

	datastore    *sqlstore.Container
	contacts     ContactSink
	connectGroup singleflight.Group
}

// NewSession opens the whatsmeow datastore and prepares a session
// bound to the given contact sink. The client itself is created
// lazily on the first connect.
func NewSession(ctx context.Context, contacts ContactSink) (*Session, error) {
	driver := normalizeDatastoreDriver(env.GetEnvStringOrDefault("WHATSAPP_DATASTORE_DRIVER", "sqlite3"))
	dsn := normalizeDatastoreDSN(driver, env.GetEnvStringOrDefault("WHATSAPP_DATASTORE_URI", "file:data/whatsapp.db?_foreign_keys=on"))

	log.Print(nil).Info("Initializing WhatsApp datastore with driver=" + driver)

	datastore, err := sqlstore.New(ctx, driver, dsn, nil)
	if err != nil {
		return nil, err
	}
	if err := datastore.Upgrade(ctx); err != nil {
		return nil, err
	}

	return &Session{datastore: datastore, contacts: contacts}, nil
}

func normalizeDatastoreDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "postgresql", "postgres", "pgx":
		return "pgx"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return strings.ToLower(driver)
	}
}

func normalizeDatastoreDSN(driver string, dsn string) string {
	if driver != "pgx" {
		return dsn
	}
	appendParam := func(current string, key string, value string) string {
		if strings.Contains(current, key+"=") {
			return current
		}
		separator := "?"
		if strings.Contains(current, "?") {
			if strings.HasSuffix(current, "?") || strings.HasSuffix(current, "&") {
				separator = ""
			} else {
				separator = "&"
			}
		}
		return current + separator + key + "=" + value
	}
	dsn = appendParam(dsn, "prefer_simple_protocol", "true")
	dsn = appendParam(dsn, "default_query_exec_mode", "simple_protocol")
	return dsn
}

func (s *Session) initClient(ctx context.Context) (*whatsmeow.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	device, err := s.datastore.GetFirstDevice(ctx)
	if err != nil {
		return nil, err
	}

	store.DeviceProps.Os = proto.String(runtime.GOOS)
	store.DeviceProps.PlatformType = waCompanionReg.DeviceProps_CHROME.Enum()
	store.DeviceProps.RequireFullSync = proto.Bool(true)

	client := whatsmeow.NewClient(device, nil)
	client.EnableAutoReconnect = true
	client.AutoTrustIdentity = true
	client.AddEventHandler(s.handleEvents)

	s.client = client
	return client, nil
}

func (s *Session) currentClient() *whatsmeow.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Connect brings the session up. A never-paired device starts the QR
// pairing flow in the background; poll CurrentQR for the code to scan.
// Concurrent calls collapse into a single connect attempt.
func (s *Session) Connect(ctx context.Context) error {
	_, err, _ := s.connectGroup.Do("connect", func() (interface{}, error) {
		client, err := s.initClient(ctx)
		if err != nil {
			return nil, err
		}

		if client.IsConnected() && client.IsLoggedIn() {
			return nil, nil
		}

		if client.Store.ID == nil {
			qrChan, err := client.GetQRChannel(context.Background())
			if err != nil {
				return nil, err
			}
			if err := client.Connect(); err != nil {
				return nil, err
			}
			go s.watchQR(qrChan)
			return nil, nil
		}

		client.Disconnect()
		return nil, client.Connect()
	})
	return err
}

// PairWithCode requests a pairing code for phone-number pairing
// instead of QR scanning.
func (s *Session) PairWithCode(ctx context.Context, phone string) (string, error) {
	client, err := s.initClient(ctx)
	if err != nil {
		return "", err
	}
	if client.Store.ID != nil {
		return "", errors.New("device is already paired")
	}

	pairCtx, cancel := context.WithTimeout(ctx, pairPhoneRequestTimeout)
	defer cancel()

	if !client.IsConnected() {
		if err := client.Connect(); err != nil {
			return "", err
		}
	}
	return client.PairPhone(pairCtx, phone, true, whatsmeow.PairClientChrome, "Chrome ("+runtime.GOOS+")")
}

func (s *Session) watchQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for evt := range qrChan {
		switch evt.Event {
		case "code":
			qrPNG, err := qrCode.Encode(evt.Code, qrCode.Medium, 256)
			if err != nil {
				log.Print(nil).WithError(err).Error("Failed to encode pairing QR")
				continue
			}
			s.mu.Lock()
			s.currentQR = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG)
			s.mu.Unlock()
			log.Print(nil).Info("Pairing QR refreshed, scan it from the web console")
		case whatsmeow.QRChannelSuccess.Event:
			s.clearQR()
			log.Print(nil).Info("Device paired")
		default:
			s.clearQR()
			if evt.Error != nil {
				log.Print(nil).WithError(evt.Error).Error("QR pairing channel closed")
			} else {
				log.Print(nil).Warn("QR pairing channel closed: " + evt.Event)
			}
		}
	}
}

func (s *Session) clearQR() {
	s.mu.Lock()
	s.currentQR = ""
	s.mu.Unlock()
}

// Logout unpairs the device and drops the client so a fresh QR pairing
// can start over.
func (s *Session) Logout(ctx context.Context) error {
	client := s.currentClient()
	if client == nil {
		return ErrClientNotReady
	}

	if err := client.Logout(ctx); err != nil {
		// A dead session cannot log out remotely; drop local state anyway.
		log.Print(nil).WithError(err).Warn("Remote logout failed, clearing local session")
		client.Disconnect()
	}

	s.mu.Lock()
	s.client = nil
	s.connected = false
	s.currentQR = ""
	s.mu.Unlock()
	return nil
}

func (s *Session) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected && s.client != nil && s.client.IsConnected()
}

func (s *Session) CurrentQR() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentQR
}

func (s *Session) handleEvents(evt interface{}) {
	switch e := evt.(type) {
	case *events.Connected:
		s.mu.Lock()
		s.connected = true
		s.currentQR = ""
		s.mu.Unlock()
		log.Print(nil).Info("WhatsApp session connected")

	case *events.Disconnected:
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
		log.Print(nil).Warn("WhatsApp session disconnected")

	case *events.LoggedOut:
		s.mu.Lock()
		s.connected = false
		s.currentQR = ""
		s.mu.Unlock()
		log.Print(nil).WithField("reason", e.Reason).Warn("WhatsApp session logged out, pair again")

	case *events.HistorySync:
		s.mergeHistorySync(e)

	case *events.Contact:
		name := e.Action.GetFullName()
		if name == "" {
			name = e.Action.GetFirstName()
		}
		if s.contacts.Merge(e.JID.String(), name) {
			log.Print(nil).WithField("contacts", s.contacts.Len()).Info("Contact upsert merged")
		}

	case *events.PushName:
		if s.contacts.Merge(e.JID.String(), e.NewPushName) {
			log.Print(nil).WithField("contacts", s.contacts.Len()).Info("Push name merged")
		}

	case *events.KeepAliveTimeout:
		log.Print(nil).WithField("errors", e.ErrorCount).Warn("WhatsApp keepalive timeout")

	case *events.ConnectFailure:
		log.Print(nil).WithField("reason", e.Reason).Error("WhatsApp connection failure: " + e.Message)
	}
}

// mergeHistorySync folds a history snapshot into the directory: chat
// names first, push names as fallback for contacts without one.
func (s *Session) mergeHistorySync(e *events.HistorySync) {
	merged := 0
	for _, conversation := range e.Data.GetConversations() {
		name := conversation.GetName()
		if name == "" {
			name = conversation.GetDisplayName()
		}
		if s.contacts.Merge(conversation.GetID(), name) {
			merged++
		}
	}
	for _, pushname := range e.Data.GetPushnames() {
		if s.contacts.Merge(pushname.GetID(), pushname.GetPushname()) {
			merged++
		}
	}
	log.Print(nil).
		WithField("merged", merged).
		WithField("contacts", s.contacts.Len()).
		Info("History snapshot synchronized")
}

// Session satisfies MessageClient by delegating to the live client, so
// the send pipeline never touches a half-initialized connection.

func (s *Session) SendMessage(ctx context.Context, to types.JID, message *waE2E.Message, extra ...whatsmeow.SendRequestExtra) (whatsmeow.SendResponse, error) {
	client := s.currentClient()
	if client == nil {
		return whatsmeow.SendResponse{}, ErrClientNotReady
	}
	return client.SendMessage(ctx, to, message, extra...)
}

func (s *Session) Upload(ctx context.Context, plaintext []byte, appInfo whatsmeow.MediaType) (whatsmeow.UploadResponse, error) {
	client := s.currentClient()
	if client == nil {
		return whatsmeow.UploadResponse{}, ErrClientNotReady
	}
	return client.Upload(ctx, plaintext, appInfo)
}

func (s *Session) GenerateMessageID() types.MessageID {
	client := s.currentClient()
	if client == nil {
		return ""
	}
	return client.GenerateMessageID()
}
