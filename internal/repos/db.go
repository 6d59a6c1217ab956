package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog if DB is empty (idempotent; safe on every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedStaff(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  image_url TEXT DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT DEFAULT '',
  image_url TEXT DEFAULT '',
  price INTEGER NOT NULL CHECK (price >= 0),
  discount_price INTEGER CHECK (discount_price IS NULL OR (discount_price > 0 AND discount_price < price)),
  unit TEXT NOT NULL DEFAULT 'dona' CHECK (unit IN ('dona','kg','litr')),
  step NUMERIC NOT NULL DEFAULT 1 CHECK (step > 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  is_available INTEGER NOT NULL DEFAULT 1,
  is_popular INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Carts (one per session)
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  qty NUMERIC NOT NULL CHECK (qty > 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  PRIMARY KEY (cart_id, product_id)
);

-- Staff (couriers and admins)
CREATE TABLE IF NOT EXISTS staff(
  id TEXT PRIMARY KEY,
  login TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('COURIER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  staff_id TEXT NULL REFERENCES staff(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_staff ON sessions(staff_id);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id INTEGER,                   -- Telegram numeric id; NULL for pure guests
  courier_id TEXT NULL REFERENCES staff(id),
  total_price NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new','pending','delivered','canceled')),
  address_text TEXT NOT NULL,
  lat REAL,
  lng REAL,
  phone TEXT NOT NULL,
  comment TEXT DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  accepted_at TEXT,
  delivered_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_courier    ON orders(courier_id);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  name TEXT NOT NULL,
  qty NUMERIC NOT NULL,
  unit TEXT NOT NULL,
  price_at_time INTEGER NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Shopper profiles (Telegram identity; guests get client-minted numeric ids)
CREATE TABLE IF NOT EXISTS profiles(
  telegram_id INTEGER PRIMARY KEY,
  name TEXT DEFAULT '',
  phone TEXT DEFAULT '',
  points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_addresses(
  id TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  label TEXT DEFAULT '',
  address_text TEXT NOT NULL,
  lat REAL,
  lng REAL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_addresses_user ON user_addresses(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('fruits','Mevalar'),
	  ('vegetables','Sabzavotlar'),
	  ('dairy','Sut mahsulotlari'),
	  ('drinks','Ichimliklar')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,description,price,discount_price,unit,step,stock,is_popular) VALUES
	  ('apple-red','fruits','Qizil olma','Fargona olmasi',18000,15000,'kg',0.5,120,1),
	  ('banana','fruits','Banan','Ekvador banani',28000,NULL,'kg',0.5,80,1),
	  ('tomato','vegetables','Pomidor','Issiqxona pomidori',22000,NULL,'kg',0.5,60,0),
	  ('milk-1l','dairy','Sut 1L','Pasterlangan sut',14000,12500,'litr',1,200,1),
	  ('cola-15','drinks','Cola 1.5L','Gazlangan ichimlik',16000,NULL,'dona',1,150,0)`)

	return tx.Commit()
}

// seedStaff ensures one admin and two couriers exist (idempotent).
func seedStaff(db *sqlx.DB) error {
	type s struct {
		ID, Login, Name, Role, Hash string
	}
	mk := func(id, login, name, role, raw string) s {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return s{ID: id, Login: login, Name: name, Role: role, Hash: string(h)}
	}

	staff := []s{
		mk("st-admin", "admin", "Okean Admin", "ADMIN", "Passw0rd!"),
		mk("st-aziz", "aziz", "Aziz", "COURIER", "Passw0rd!"),
		mk("st-timur", "timur", "Timur", "COURIER", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range staff {
		if _, err := tx.Exec(`
			INSERT INTO staff(id,login,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(login) DO NOTHING
		`, x.ID, x.Login, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
