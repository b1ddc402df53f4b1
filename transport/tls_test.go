package transport

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/hybridsim/substructure/common"
)

const testServerName = "controller.test"

// testCertPair generates a throwaway CA and a leaf certificate signed by
// it, usable for both server and client authentication.
func testCertPair(t *testing.T) (tls.Certificate, *x509.CertPool) {
	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	caTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test ca"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTmpl, caTmpl, &caKey.PublicKey, caKey)
	if err != nil {
		t.Fatal(err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		t.Fatal(err)
	}

	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	leafTmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: testServerName},
		DNSNames:     []string{testServerName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{
			x509.ExtKeyUsageServerAuth,
			x509.ExtKeyUsageClientAuth,
		},
	}
	leafDER, err := x509.CreateCertificate(rand.Reader, leafTmpl, caCert, &leafKey.PublicKey, caKey)
	if err != nil {
		t.Fatal(err)
	}

	pool := x509.NewCertPool()
	pool.AddCert(caCert)

	return tls.Certificate{Certificate: [][]byte{leafDER}, PrivateKey: leafKey}, pool
}

func testTLSConfig(t *testing.T, cert tls.Certificate, pool *x509.CertPool) *tls.Config {
	conf, err := TLSConfig(testServerName, []tls.Certificate{cert}, pool)
	if err != nil {
		t.Fatal(err)
	}
	return conf
}

func TestTLSChannel(t *testing.T) {
	cert, pool := testCertPair(t)
	serverConf := testTLSConfig(t, cert, pool)
	clientConf := testTLSConfig(t, cert, pool)

	ln, err := Listen(TLS, "127.0.0.1:0", serverConf)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	go echo(t, ln, 11, 64)

	ch, err := Dial(TLS, ln.Addr().String(), time.Second, clientConf,
		common.NewTestEntry(t, "transport"))
	if err != nil {
		t.Fatal(err)
	}
	defer ch.Close()

	iv := []int32{3, 3, 3, 0, 1, 0, 0, 0, 3, 0, 11}
	if err := ch.SendInts(iv); err != nil {
		t.Fatal(err)
	}
	gotInts := make([]int32, len(iv))
	if err := ch.RecvInts(gotInts); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotInts, iv) {
		t.Fatalf("ints = %v, want %v", gotInts, iv)
	}

	fv := make([]float64, 64)
	for i := range fv {
		fv[i] = float64(i) * 0.5
	}
	if err := ch.SendFloats(fv); err != nil {
		t.Fatal(err)
	}
	gotFloats := make([]float64, len(fv))
	if err := ch.RecvFloats(gotFloats); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotFloats, fv) {
		t.Fatalf("floats mismatch after round trip")
	}
}

func TestTLSRejectsUntrustedServer(t *testing.T) {
	serverCert, serverPool := testCertPair(t)
	_, clientPool := testCertPair(t) // different CA: server cert untrusted

	ln, err := Listen(TLS, "127.0.0.1:0", testTLSConfig(t, serverCert, serverPool))
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		ch, err := ln.Accept()
		if err != nil {
			return
		}
		// a read drives the server side of the handshake
		ch.RecvInts(make([]int32, 11))
		ch.Close()
	}()

	clientCert, _ := testCertPair(t)
	_, err = Dial(TLS, ln.Addr().String(), time.Second,
		testTLSConfig(t, clientCert, clientPool),
		common.NewTestEntry(t, "transport"))
	if err == nil {
		t.Fatal("dial to a server with an untrusted certificate must fail")
	}
}

func TestTLSRejectsUnauthenticatedClient(t *testing.T) {
	cert, pool := testCertPair(t)

	ln, err := Listen(TLS, "127.0.0.1:0", testTLSConfig(t, cert, pool))
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		ch, err := ln.Accept()
		if err != nil {
			return
		}
		// the handshake completes during the first exchange; the record
		// never arrives from a client without a certificate
		ch.RecvInts(make([]int32, 11))
		ch.Close()
	}()

	// no client certificate
	clientConf := testTLSConfig(t, tls.Certificate{}, pool)
	clientConf.Certificates = nil

	ch, err := Dial(TLS, ln.Addr().String(), time.Second, clientConf,
		common.NewTestEntry(t, "transport"))
	if err != nil {
		return // rejected at the handshake
	}
	defer ch.Close()

	// the rejection may only surface on the first record exchange
	if err := ch.SendInts(make([]int32, 11)); err != nil {
		return
	}
	if err := ch.RecvInts(make([]int32, 11)); err == nil {
		t.Fatal("exchange with an unauthenticated client must fail")
	}
}

func TestTLSRequiresConfig(t *testing.T) {
	if _, err := Dial(TLS, "127.0.0.1:1", time.Second, nil, nil); err == nil {
		t.Fatal("tls dial without a config must fail")
	}
	if _, err := Listen(TLS, "127.0.0.1:0", nil); err == nil {
		t.Fatal("tls listen without a config must fail")
	}
}
