package db

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);`

const workoutsSchema = `
CREATE TABLE IF NOT EXISTS entrenamientos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fecha DATE NOT NULL,
	tipo_ejercicio VARCHAR(255) NOT NULL,
	series INTEGER NOT NULL,
	repeticiones INTEGER NOT NULL,
	peso INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users (id)
);`

const singleUserWorkoutsSchema = `
CREATE TABLE IF NOT EXISTS entrenamientos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fecha DATE NOT NULL,
	tipo_ejercicio VARCHAR(255) NOT NULL,
	series INTEGER NOT NULL,
	repeticiones INTEGER NOT NULL,
	peso INTEGER NOT NULL
);`
