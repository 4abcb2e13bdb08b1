package transport

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"net"
	"time"

	quic "github.com/quic-go/quic-go"

	"github.com/harlequix/parcheck/protocol"
)

// Handler is called once for every packet received.
type Handler func(ctx context.Context, p *protocol.Packet)

type Listener struct {
	ln  *quic.Listener
	cfg *Config
}

// Listen binds addr with a freshly generated self-signed certificate.
func Listen(addr string, cfg *Config) (*Listener, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cert, err := selfSigned()
	if err != nil {
		return nil, err
	}
	tlsConf := &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   cfg.Protocols,
	}
	ln, err := quic.ListenAddr(addr, tlsConf, cfg.quicConfig())
	if err != nil {
		return nil, err
	}
	logger.WithField("addr", ln.Addr().String()).Info("listening")
	return &Listener{ln: ln, cfg: cfg}, nil
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *Listener) Close() error {
	return l.ln.Close()
}

// Serve accepts connections until ctx is cancelled. Streams are handled
// concurrently, so handler must be safe for concurrent use.
func (l *Listener) Serve(ctx context.Context, handler Handler) error {
	go func() {
		<-ctx.Done()
		l.ln.Close()
	}()
	for {
		session, err := l.ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		logger.WithField("remote", session.RemoteAddr().String()).Info("peer connected")
		go func() {
			for {
				stream, err := session.AcceptStream(ctx)
				if err != nil {
					logger.WithField("remote", session.RemoteAddr().String()).WithError(err).Debug("peer gone")
					return
				}
				go serveStream(ctx, stream, handler)
			}
		}()
	}
}

func serveStream(ctx context.Context, stream io.ReadWriteCloser, handler Handler) {
	defer stream.Close()
	p, err := readPacket(stream)
	if err != nil {
		logger.WithError(err).Warn("dropping packet")
		io.WriteString(stream, Nack+" "+err.Error()+"\n")
		return
	}
	handler(ctx, p)
	io.WriteString(stream, Ack+"\n")
}

func selfSigned() (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: "parcheck"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, nil
}
