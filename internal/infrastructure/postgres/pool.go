package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/compras-api/pkg/config"
)

const (
	poolMaxConns        = 25
	poolMinConns        = 2
	poolConnLifetime    = time.Hour
	poolConnIdle        = 30 * time.Minute
	poolHealthCheckEach = time.Minute
)

// NewPool crea el pool de conexiones a PostgreSQL. Con DATABASE_URL definido
// se usa tal cual; si no, se arma el DSN desde DB_HOST, DB_PORT, etc. En
// ambos casos se fuerza IPv4 donde sea posible: contenedores sin IPv6 contra
// proveedores que resuelven solo AAAA fallan el dial de otra forma.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	var dsn string
	if cfg.DatabaseURL != "" {
		dsn = urlWithIPv4Host(cfg.DatabaseURL)
	} else {
		dsnCfg := cfg
		if ipv4, err := ipv4For(cfg.Host); err == nil {
			dsnCfg.Host = ipv4
		}
		dsn = dsnCfg.DSN()
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolCfg.ConnConfig.DialFunc = dialIPv4First
	poolCfg.MaxConns = poolMaxConns
	poolCfg.MinConns = poolMinConns
	poolCfg.MaxConnLifetime = poolConnLifetime
	poolCfg.MaxConnIdleTime = poolConnIdle
	poolCfg.HealthCheckPeriod = poolHealthCheckEach

	// NUMERIC <-> shopspring/decimal en todas las conexiones: las cantidades
	// del dominio nunca pasan por float64.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// dialIPv4First intenta el dial por tcp4; si el host no tiene IPv4 cae al
// dial normal por si el resolver entrega algo usable en runtime.
func dialIPv4First(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	dialer := &net.Dialer{}
	ipv4, err := ipv4For(host)
	if err != nil {
		return dialer.DialContext(ctx, network, addr)
	}
	return dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ipv4, port))
}

// ipv4For resuelve el hostname a una dirección IPv4. Primero con el resolver
// del sistema; si el DNS del contenedor solo devuelve AAAA, reintenta contra
// un DNS público.
func ipv4For(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host, nil
		}
		return "", fmt.Errorf("direccion IPv6: %s", host)
	}
	if ip, err := lookupIPv4(host, nil); err == nil {
		return ip, nil
	}
	fallback := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{}
			return d.DialContext(ctx, "udp", "8.8.8.8:53")
		},
	}
	return lookupIPv4(host, fallback)
}

func lookupIPv4(host string, r *net.Resolver) (string, error) {
	var ips []net.IP
	var err error
	if r != nil {
		ips, err = r.LookupIP(context.Background(), "ip4", host)
	} else {
		ips, err = net.LookupIP(host)
	}
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip.String(), nil
		}
	}
	return "", fmt.Errorf("sin IPv4 para %s", host)
}

// urlWithIPv4Host reescribe el host de una DATABASE_URL por su IPv4 cuando
// existe; si no, devuelve la URL sin tocar.
func urlWithIPv4Host(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return databaseURL
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	ipv4, err := ipv4For(u.Hostname())
	if err != nil {
		return databaseURL
	}
	u.Host = net.JoinHostPort(ipv4, port)
	return u.String()
}
